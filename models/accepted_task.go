package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AcceptedTaskStatus string

const (
	AcceptedStatusAccepted  AcceptedTaskStatus = "accepted"
	AcceptedStatusCompleted AcceptedTaskStatus = "completed"
	AcceptedStatusCancelled AcceptedTaskStatus = "cancelled"
)

// AcceptedTask vezuje zadatak za tačno jednog prihvaćenog pomagača.
// Jedinstven indeks na taskId garantuje da zadatak može biti dodeljen samo jednom.
type AcceptedTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID      primitive.ObjectID `bson:"taskId" json:"taskId"`
	HelperID    primitive.ObjectID `bson:"helperId" json:"helperId"`
	TaskOwnerID primitive.ObjectID `bson:"taskOwnerId" json:"taskOwnerId"`
	Status      AcceptedTaskStatus `bson:"status" json:"status"`
	AcceptedAt  time.Time          `bson:"acceptedAt" json:"acceptedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Rating      *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	Review      string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
