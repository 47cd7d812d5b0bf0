package services

import (
	"context"
	"errors"
	"strings"

	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type SyncUserInput struct {
	ExternalID     string          `json:"externalId"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	ProfilePicture *models.Picture `json:"profilePicture,omitempty"`
}

// SyncUser upisuje korisnika iz eksternog provajdera identiteta.
// Operacija je idempotentna po externalId: postojeći korisnik se ažurira,
// novi se kreira kao aktivan.
func (s *UserService) SyncUser(ctx context.Context, input SyncUserInput) (*models.User, error) {
	if strings.TrimSpace(input.ExternalID) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, utils.NewValidation("Invalid sync data", "externalId and email are required")
	}

	user, err := s.users.FindByExternalID(ctx, input.ExternalID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if user != nil {
		if input.FirstName != "" {
			user.FirstName = input.FirstName
		}
		if input.LastName != "" {
			user.LastName = input.LastName
		}
		user.Email = strings.ToLower(input.Email)
		if input.ProfilePicture != nil {
			user.ProfilePicture = input.ProfilePicture
		}

		if err := s.users.Update(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, utils.NewConflict("Email already exists")
			}
			return nil, err
		}
		return user, nil
	}

	user = &models.User{
		ExternalID:     input.ExternalID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          strings.ToLower(input.Email),
		ProfilePicture: input.ProfilePicture,
		IsActive:       true,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, utils.NewConflict("Email already exists")
		}
		return nil, err
	}

	return user, nil
}

// GetUserProfile vraća javni profil korisnika
func (s *UserService) GetUserProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// GetUserStats vraća brojke profila za prijavljenog korisnika
func (s *UserService) GetUserStats(ctx context.Context, caller *models.User) (*models.UserStats, error) {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("User not found")
		}
		return nil, err
	}

	return &models.UserStats{
		TasksCreated:   user.TasksCreated,
		TasksCompleted: user.TasksCompleted,
		Rating:         user.Rating,
		ReviewCount:    user.ReviewCount,
	}, nil
}

type UpdateProfileInput struct {
	FirstName      *string         `json:"firstName,omitempty"`
	LastName       *string         `json:"lastName,omitempty"`
	PhoneNumber    *string         `json:"phoneNumber,omitempty"`
	Bio            *string         `json:"bio,omitempty"`
	ProfilePicture *models.Picture `json:"profilePicture,omitempty"`
}

func (s *UserService) UpdateProfile(ctx context.Context, caller *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.FirstName != nil {
		if length := len(strings.TrimSpace(*input.FirstName)); length < 1 || length > 50 {
			return nil, utils.NewValidation("Invalid profile data", "first name must be between 1 and 50 characters")
		}
		caller.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if length := len(strings.TrimSpace(*input.LastName)); length < 1 || length > 50 {
			return nil, utils.NewValidation("Invalid profile data", "last name must be between 1 and 50 characters")
		}
		caller.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PhoneNumber != nil {
		caller.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Bio != nil {
		if len(*input.Bio) > 500 {
			return nil, utils.NewValidation("Invalid profile data", "bio cannot exceed 500 characters")
		}
		caller.Bio = *input.Bio
	}
	if input.ProfilePicture != nil {
		caller.ProfilePicture = input.ProfilePicture
	}

	if err := s.users.Update(ctx, caller); err != nil {
		return nil, err
	}
	return caller, nil
}

// DeactivateAccount gasi nalog bez brisanja; korisnik ostaje referenciran
// iz zadataka i zahteva
func (s *UserService) DeactivateAccount(ctx context.Context, caller *models.User) error {
	caller.IsActive = false
	return s.users.Update(ctx, caller)
}
