package services

import (
	"context"
	"time"

	"hirehelper-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	IncTaskCounters(ctx context.Context, id primitive.ObjectID, createdDelta, completedDelta int) error
	ApplyRating(ctx context.Context, id primitive.ObjectID, rating float64) error
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.TaskDetails, error)
	ListDetails(ctx context.Context, filter models.TaskFilter, page, limit int) ([]models.TaskDetails, int64, error)
	IncRequestCount(ctx context.Context, id primitive.ObjectID, delta int) error
	AssignHelper(ctx context.Context, id, helperID primitive.ObjectID) error
	MarkCompleted(ctx context.Context, id primitive.ObjectID, at time.Time) error
	StatusCounts(ctx context.Context, ownerID primitive.ObjectID) (map[models.TaskStatus]int64, error)
}

type RequestStore interface {
	Insert(ctx context.Context, request *models.Request) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTask(ctx context.Context, taskID primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
	FindByTaskAndRequester(ctx context.Context, taskID, requesterID primitive.ObjectID) (*models.Request, error)
	DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.RequestDetails, error)
	ListDetailsByOwner(ctx context.Context, ownerID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error)
	ListDetailsByRequester(ctx context.Context, requesterID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error)
	// MarkResponded menja status samo ako je trenutni status jednak from;
	// vraća false ako uslov nije ispunjen.
	MarkResponded(ctx context.Context, id primitive.ObjectID, from, to models.RequestStatus, at time.Time, responseMessage string) (bool, error)
	RejectOtherPending(ctx context.Context, taskID, keepID primitive.ObjectID, responseMessage string, at time.Time) (int64, error)
	CountByStatusForOwner(ctx context.Context, ownerID primitive.ObjectID) (map[models.RequestStatus]int64, error)
	CountByStatusForRequester(ctx context.Context, requesterID primitive.ObjectID) (map[models.RequestStatus]int64, error)
}

type AcceptedTaskStore interface {
	// Insert vraća repositories.ErrDuplicate ako zadatak već ima prihvaćenog pomagača
	Insert(ctx context.Context, accepted *models.AcceptedTask) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByTask(ctx context.Context, taskID primitive.ObjectID) (*models.AcceptedTask, error)
	MarkCompleted(ctx context.Context, taskID primitive.ObjectID, at time.Time) error
	// SetReview upisuje ocenu samo ako ocena već ne postoji; vraća false ako postoji
	SetReview(ctx context.Context, taskID primitive.ObjectID, rating float64, review string) (bool, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID, at time.Time) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
