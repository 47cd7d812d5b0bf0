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

type AcceptedTaskRepo struct {
	collection *mongo.Collection
}

func NewAcceptedTaskRepo(db *mongo.Database) *AcceptedTaskRepo {
	return &AcceptedTaskRepo{collection: db.Collection("acceptedTasks")}
}

// EnsureIndexes kreira jedinstven indeks na taskId.
// Taj indeks je tačka linearizacije za prihvatanje zahteva.
func (r *AcceptedTaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "taskId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "helperId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "taskOwnerId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create accepted task indexes: %v", err)
	}
	return nil
}

func (r *AcceptedTaskRepo) Insert(ctx context.Context, accepted *models.AcceptedTask) error {
	accepted.ID = primitive.NewObjectID()
	accepted.CreatedAt = time.Now()
	accepted.UpdatedAt = accepted.CreatedAt

	_, err := r.collection.InsertOne(ctx, accepted)
	return translateError(err)
}

func (r *AcceptedTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AcceptedTaskRepo) FindByTask(ctx context.Context, taskID primitive.ObjectID) (*models.AcceptedTask, error) {
	var accepted models.AcceptedTask
	err := r.collection.FindOne(ctx, bson.M{"taskId": taskID}).Decode(&accepted)
	if err != nil {
		return nil, translateError(err)
	}
	return &accepted, nil
}

func (r *AcceptedTaskRepo) MarkCompleted(ctx context.Context, taskID primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":      models.AcceptedStatusCompleted,
		"completedAt": at,
		"updatedAt":   at,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"taskId": taskID}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReview upisuje ocenu samo ako već ne postoji
func (r *AcceptedTaskRepo) SetReview(ctx context.Context, taskID primitive.ObjectID, rating float64, review string) (bool, error) {
	filter := bson.M{"taskId": taskID, "rating": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{
		"rating":    rating,
		"review":    review,
		"updatedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translateError(err)
	}
	return result.MatchedCount > 0, nil
}
