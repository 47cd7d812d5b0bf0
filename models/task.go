package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusOpen, TaskStatusAssigned, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategoryMoving    TaskCategory = "moving"
	CategoryCleaning  TaskCategory = "cleaning"
	CategoryTech      TaskCategory = "tech"
	CategoryGardening TaskCategory = "gardening"
	CategoryPainting  TaskCategory = "painting"
	CategoryOther     TaskCategory = "other"
)

func ValidTaskCategory(c TaskCategory) bool {
	switch c {
	case CategoryMoving, CategoryCleaning, CategoryTech, CategoryGardening, CategoryPainting, CategoryOther:
		return true
	}
	return false
}

type Task struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description" json:"description"`
	Category       TaskCategory        `bson:"category" json:"category"`
	Location       string              `bson:"location" json:"location"`
	StartTime      time.Time           `bson:"startTime" json:"startTime"`
	EndTime        *time.Time          `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Status         TaskStatus          `bson:"status" json:"status"`
	Budget         *float64            `bson:"budget,omitempty" json:"budget,omitempty"`
	Picture        *Picture            `bson:"picture,omitempty" json:"picture,omitempty"`
	RequestCount   int                 `bson:"requestCount" json:"requestCount"`
	AcceptedHelper *primitive.ObjectID `bson:"acceptedHelper,omitempty" json:"acceptedHelper,omitempty"`
	CompletedAt    *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TaskFilter opisuje filtere za listanje zadataka
type TaskFilter struct {
	OwnerID  primitive.ObjectID
	Status   TaskStatus
	Category TaskCategory
	Search   string
}

// TaskSummary je projekcija zadatka za prikaz uz zahteve
type TaskSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Location  string             `bson:"location" json:"location"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	Status    TaskStatus         `bson:"status" json:"status"`
	Picture   *Picture           `bson:"picture,omitempty" json:"picture,omitempty"`
}

// TaskDetails je zadatak sa pridruženim korisnicima za prikaz
type TaskDetails struct {
	Task    `bson:",inline"`
	Creator *UserSummary `bson:"creator,omitempty" json:"creator,omitempty"`
	Helper  *UserSummary `bson:"helper,omitempty" json:"helper,omitempty"`
}
