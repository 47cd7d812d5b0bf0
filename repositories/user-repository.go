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

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{collection: db.Collection("users")}
}

func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "rating", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}
	return nil
}

func (r *UserRepo) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.collection.InsertOne(ctx, user)
	return translateError(err)
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepo) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&user)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepo) IncTaskCounters(ctx context.Context, id primitive.ObjectID, createdDelta, completedDelta int) error {
	update := bson.M{"$inc": bson.M{"tasksCreated": createdDelta, "tasksCompleted": completedDelta}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translateError(err)
}

// ApplyRating dodaje novu ocenu u tekući prosek korisnika
func (r *UserRepo) ApplyRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	total := user.Rating*float64(user.ReviewCount) + rating
	user.ReviewCount++
	user.Rating = total / float64(user.ReviewCount)

	return r.Update(ctx, user)
}

// SummariesByIDs vraća projekcije korisnika za zadate ID-jeve
func (r *UserRepo) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]*models.UserSummary)
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var summary models.UserSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		summaries[summary.ID] = &summary
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return summaries, nil
}
