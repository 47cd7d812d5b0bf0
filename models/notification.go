package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationRequest   NotificationType = "request"
	NotificationAccepted  NotificationType = "accepted"
	NotificationRejected  NotificationType = "rejected"
	NotificationCompleted NotificationType = "completed"
	NotificationMessage   NotificationType = "message"
)

type RelatedKind string

const (
	RelatedNone    RelatedKind = ""
	RelatedTask    RelatedKind = "Task"
	RelatedRequest RelatedKind = "Request"
	RelatedUser    RelatedKind = "User"
)

// RelatedRef je označena referenca na entitet iz koga notifikacija potiče.
// Kind određuje kolekciju na koju se ID odnosi; prazan Kind znači da reference nema.
type RelatedRef struct {
	Kind  RelatedKind         `bson:"relatedModel,omitempty" json:"relatedModel,omitempty"`
	RefID *primitive.ObjectID `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
}

func NoRef() RelatedRef {
	return RelatedRef{}
}

func TaskRef(id primitive.ObjectID) RelatedRef {
	return RelatedRef{Kind: RelatedTask, RefID: &id}
}

func RequestRef(id primitive.ObjectID) RelatedRef {
	return RelatedRef{Kind: RelatedRequest, RefID: &id}
}

func UserRef(id primitive.ObjectID) RelatedRef {
	return RelatedRef{Kind: RelatedUser, RefID: &id}
}

func (r RelatedRef) IsZero() bool {
	return r.Kind == RelatedNone
}

type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Type       NotificationType   `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	RelatedRef `bson:",inline"`
	Read       bool       `bson:"read" json:"read"`
	ReadAt     *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}
