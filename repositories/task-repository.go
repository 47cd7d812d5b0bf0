package repositories

import (
	"context"
	"fmt"
	"time"

	"hirehelper-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepo struct {
	collection *mongo.Collection
	users      *UserRepo
}

func NewTaskRepo(db *mongo.Database, users *UserRepo) *TaskRepo {
	return &TaskRepo{
		collection: db.Collection("tasks"),
		users:      users,
	}
}

func (r *TaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "startTime", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %v", err)
	}
	return nil
}

func (r *TaskRepo) Insert(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	_, err := r.collection.InsertOne(ctx, task)
	return translateError(err)
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepo) DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.TaskDetails, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := r.populate(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func filterQuery(filter models.TaskFilter) bson.M {
	query := bson.M{}
	if !filter.OwnerID.IsZero() {
		query["userId"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []bson.M{
			{"title": regex},
			{"description": regex},
			{"location": regex},
		}
	}
	return query
}

func (r *TaskRepo) ListDetails(ctx context.Context, filter models.TaskFilter, page, limit int) ([]models.TaskDetails, int64, error) {
	query := filterQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tasks: %v", err)
	}

	details, err := r.populate(ctx, tasks)
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// populate pridružuje projekcije vlasnika i pomagača zadacima
func (r *TaskRepo) populate(ctx context.Context, tasks []models.Task) ([]models.TaskDetails, error) {
	ids := make([]primitive.ObjectID, 0, len(tasks)*2)
	for _, task := range tasks {
		ids = append(ids, task.UserID)
		if task.AcceptedHelper != nil {
			ids = append(ids, *task.AcceptedHelper)
		}
	}

	summaries, err := r.users.SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]models.TaskDetails, 0, len(tasks))
	for _, task := range tasks {
		detail := models.TaskDetails{Task: task, Creator: summaries[task.UserID]}
		if task.AcceptedHelper != nil {
			detail.Helper = summaries[*task.AcceptedHelper]
		}
		details = append(details, detail)
	}
	return details, nil
}

func (r *TaskRepo) IncRequestCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	update := bson.M{"$inc": bson.M{"requestCount": delta}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translateError(err)
}

func (r *TaskRepo) AssignHelper(ctx context.Context, id, helperID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"status":         models.TaskStatusAssigned,
		"acceptedHelper": helperID,
		"updatedAt":      time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":      models.TaskStatusCompleted,
		"completedAt": at,
		"updatedAt":   at,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) StatusCounts(ctx context.Context, ownerID primitive.ObjectID) (map[models.TaskStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": ownerID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %v", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.TaskStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status models.TaskStatus `bson:"_id"`
			Count  int64             `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode task stats: %v", err)
		}
		counts[row.Status] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return counts, nil
}
