package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// Request je ponuda korisnika da pomogne na zadatku.
// Par (taskId, requesterId) je jedinstven.
type Request struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID          primitive.ObjectID `bson:"taskId" json:"taskId"`
	RequesterID     primitive.ObjectID `bson:"requesterId" json:"requesterId"`
	TaskOwnerID     primitive.ObjectID `bson:"taskOwnerId" json:"taskOwnerId"`
	Message         string             `bson:"message" json:"message"`
	Status          RequestStatus      `bson:"status" json:"status"`
	RespondedAt     *time.Time         `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	ResponseMessage string             `bson:"responseMessage,omitempty" json:"responseMessage,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RequestDetails je zahtev sa pridruženim podacima za prikaz
type RequestDetails struct {
	Request   `bson:",inline"`
	Requester *UserSummary `bson:"requester,omitempty" json:"requester,omitempty"`
	Owner     *UserSummary `bson:"owner,omitempty" json:"owner,omitempty"`
	Task      *TaskSummary `bson:"task,omitempty" json:"task,omitempty"`
}

// RequestStats broji zahteve po statusu
type RequestStats struct {
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
