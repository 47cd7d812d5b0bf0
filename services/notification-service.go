package services

import (
	"context"
	"errors"
	"time"

	"hirehelper-service/logging"
	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailSender šalje email; implementacija je utils.SMTPMailer
type EmailSender interface {
	Send(to, subject, body string) error
}

type NotificationService struct {
	store        NotificationStore
	mailer       EmailSender
	emailBreaker *gobreaker.CircuitBreaker
}

func NewNotificationService(store NotificationStore, mailer EmailSender, emailBreaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{
		store:        store,
		mailer:       mailer,
		emailBreaker: emailBreaker,
	}
}

// Notify upisuje notifikaciju za korisnika.
// Greška se loguje i nikad ne prosleđuje pozivaocu; isporuka notifikacije
// ne sme da blokira operaciju iz koje potiče.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, message string, related models.RelatedRef) {
	notification := &models.Notification{
		UserID:     userID,
		Type:       notificationType,
		Title:      title,
		Message:    message,
		RelatedRef: related,
	}

	if err := s.store.Insert(ctx, notification); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_CREATE_FAILED, Description: Failed to create notification for user %s: %v", userID.Hex(), err)
	}
}

// SendEmail šalje email u pozadini, kroz circuit breaker.
// Neuspeh se loguje i ne utiče na operaciju koja je email pokrenula.
func (s *NotificationService) SendEmail(to, subject, body string) {
	if s.mailer == nil || to == "" {
		logging.Logger.Infof("Event ID: EMAIL_SKIPPED, Description: Mailer not configured, skipping email to %s", to)
		return
	}

	go func() {
		var err error
		if s.emailBreaker != nil {
			_, err = s.emailBreaker.Execute(func() (interface{}, error) {
				return nil, s.mailer.Send(to, subject, body)
			})
		} else {
			err = s.mailer.Send(to, subject, body)
		}
		if err != nil {
			logging.Logger.Errorf("Event ID: EMAIL_SEND_FAILED, Description: Failed to send email to %s: %v", to, err)
		}
	}()
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, models.Pagination, int64, error) {
	notifications, total, err := s.store.List(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, models.Pagination{}, 0, err
	}

	unreadCount, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, models.Pagination{}, 0, err
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	return notifications, models.NewPagination(page, limit, total), unreadCount, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID, caller *models.User) (*models.Notification, error) {
	notification, err := s.findOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if !notification.Read {
		now := time.Now()
		if err := s.store.MarkRead(ctx, id, now); err != nil {
			return nil, err
		}
		notification.Read = true
		notification.ReadAt = &now
	}

	return notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller *models.User) (int64, error) {
	return s.store.MarkAllRead(ctx, caller.ID, time.Now())
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id primitive.ObjectID, caller *models.User) error {
	if _, err := s.findOwned(ctx, id, caller); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *NotificationService) DeleteAllNotifications(ctx context.Context, caller *models.User) (int64, error) {
	return s.store.DeleteAll(ctx, caller.ID)
}

func (s *NotificationService) findOwned(ctx context.Context, id primitive.ObjectID, caller *models.User) (*models.Notification, error) {
	notification, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("Notification not found")
		}
		return nil, err
	}

	if notification.UserID != caller.ID {
		return nil, utils.NewForbidden("Not authorized")
	}

	return notification, nil
}
