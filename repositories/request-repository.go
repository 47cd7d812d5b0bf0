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

type RequestRepo struct {
	collection *mongo.Collection
	users      *UserRepo
	tasks      *mongo.Collection
}

func NewRequestRepo(db *mongo.Database, users *UserRepo) *RequestRepo {
	return &RequestRepo{
		collection: db.Collection("requests"),
		users:      users,
		tasks:      db.Collection("tasks"),
	}
}

func (r *RequestRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "taskId", Value: 1}, {Key: "requesterId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "taskOwnerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "requesterId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create request indexes: %v", err)
	}
	return nil
}

func (r *RequestRepo) Insert(ctx context.Context, request *models.Request) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt

	_, err := r.collection.InsertOne(ctx, request)
	return translateError(err)
}

func (r *RequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RequestRepo) DeleteByTask(ctx context.Context, taskID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"taskId": taskID})
	return translateError(err)
}

func (r *RequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var request models.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, translateError(err)
	}
	return &request, nil
}

func (r *RequestRepo) FindByTaskAndRequester(ctx context.Context, taskID, requesterID primitive.ObjectID) (*models.Request, error) {
	var request models.Request
	err := r.collection.FindOne(ctx, bson.M{"taskId": taskID, "requesterId": requesterID}).Decode(&request)
	if err != nil {
		return nil, translateError(err)
	}
	return &request, nil
}

func (r *RequestRepo) DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.RequestDetails, error) {
	request, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := r.populate(ctx, []models.Request{*request})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (r *RequestRepo) ListDetailsByOwner(ctx context.Context, ownerID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error) {
	query := bson.M{"taskOwnerId": ownerID}
	if status != "" {
		query["status"] = status
	}
	return r.listDetails(ctx, query, page, limit)
}

func (r *RequestRepo) ListDetailsByRequester(ctx context.Context, requesterID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error) {
	query := bson.M{"requesterId": requesterID}
	if status != "" {
		query["status"] = status
	}
	return r.listDetails(ctx, query, page, limit)
}

func (r *RequestRepo) listDetails(ctx context.Context, query bson.M, page, limit int) ([]models.RequestDetails, int64, error) {
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode requests: %v", err)
	}

	details, err := r.populate(ctx, requests)
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// populate pridružuje projekcije korisnika i zadataka zahtevima
func (r *RequestRepo) populate(ctx context.Context, requests []models.Request) ([]models.RequestDetails, error) {
	userIDs := make([]primitive.ObjectID, 0, len(requests)*2)
	taskIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, request := range requests {
		userIDs = append(userIDs, request.RequesterID, request.TaskOwnerID)
		taskIDs = append(taskIDs, request.TaskID)
	}

	userSummaries, err := r.users.SummariesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	taskSummaries := make(map[primitive.ObjectID]*models.TaskSummary)
	if len(taskIDs) > 0 {
		cursor, err := r.tasks.Find(ctx, bson.M{"_id": bson.M{"$in": taskIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var summary models.TaskSummary
			if err := cursor.Decode(&summary); err != nil {
				return nil, fmt.Errorf("failed to decode task: %v", err)
			}
			taskSummaries[summary.ID] = &summary
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("cursor error: %v", err)
		}
	}

	details := make([]models.RequestDetails, 0, len(requests))
	for _, request := range requests {
		details = append(details, models.RequestDetails{
			Request:   request,
			Requester: userSummaries[request.RequesterID],
			Owner:     userSummaries[request.TaskOwnerID],
			Task:      taskSummaries[request.TaskID],
		})
	}
	return details, nil
}

func (r *RequestRepo) MarkResponded(ctx context.Context, id primitive.ObjectID, from, to models.RequestStatus, at time.Time, responseMessage string) (bool, error) {
	set := bson.M{
		"status":      to,
		"respondedAt": at,
		"updatedAt":   at,
	}
	if responseMessage != "" {
		set["responseMessage"] = responseMessage
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, translateError(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *RequestRepo) RejectOtherPending(ctx context.Context, taskID, keepID primitive.ObjectID, responseMessage string, at time.Time) (int64, error) {
	filter := bson.M{
		"taskId": taskID,
		"_id":    bson.M{"$ne": keepID},
		"status": models.RequestStatusPending,
	}
	update := bson.M{"$set": bson.M{
		"status":          models.RequestStatusRejected,
		"respondedAt":     at,
		"responseMessage": responseMessage,
		"updatedAt":       at,
	}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, translateError(err)
	}
	return result.ModifiedCount, nil
}

func (r *RequestRepo) CountByStatusForOwner(ctx context.Context, ownerID primitive.ObjectID) (map[models.RequestStatus]int64, error) {
	return r.countByStatus(ctx, bson.M{"taskOwnerId": ownerID})
}

func (r *RequestRepo) CountByStatusForRequester(ctx context.Context, requesterID primitive.ObjectID) (map[models.RequestStatus]int64, error) {
	return r.countByStatus(ctx, bson.M{"requesterId": requesterID})
}

func (r *RequestRepo) countByStatus(ctx context.Context, match bson.M) (map[models.RequestStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate request stats: %v", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.RequestStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status models.RequestStatus `bson:"_id"`
			Count  int64                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode request stats: %v", err)
		}
		counts[row.Status] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return counts, nil
}
