package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Picture je referenca na sliku u eksternom skladištu
type Picture struct {
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID     string             `bson:"externalId" json:"externalId"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	PhoneNumber    string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfilePicture *Picture           `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Rating         float64            `bson:"rating" json:"rating"`
	ReviewCount    int                `bson:"reviewCount" json:"reviewCount"`
	TasksCreated   int                `bson:"tasksCreated" json:"tasksCreated"`
	TasksCompleted int                `bson:"tasksCompleted" json:"tasksCompleted"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserStats su brojke profila korisnika
type UserStats struct {
	TasksCreated   int     `json:"tasksCreated"`
	TasksCompleted int     `json:"tasksCompleted"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`
}

// UserSummary je projekcija korisnika za prikaz u listama
type UserSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	ProfilePicture *Picture           `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Rating         float64            `bson:"rating" json:"rating"`
	ReviewCount    int                `bson:"reviewCount" json:"reviewCount"`
}

func SummaryOf(u *User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Rating:         u.Rating,
		ReviewCount:    u.ReviewCount,
	}
}
