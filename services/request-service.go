package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"hirehelper-service/logging"
	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const assignedElsewhereMessage = "Task has been assigned to another helper"

type RequestService struct {
	tasks    TaskStore
	requests RequestStore
	accepted AcceptedTaskStore
	users    UserStore
	notifier *NotificationService
}

func NewRequestService(tasks TaskStore, requests RequestStore, accepted AcceptedTaskStore, users UserStore, notifier *NotificationService) *RequestService {
	return &RequestService{
		tasks:    tasks,
		requests: requests,
		accepted: accepted,
		users:    users,
		notifier: notifier,
	}
}

// CreateRequest kreira zahtev za pomoć na zadatku.
// Zadatak mora biti otvoren, pošiljalac ne sme biti vlasnik i po zadatku
// je dozvoljen najviše jedan zahtev istog pošiljaoca.
func (s *RequestService) CreateRequest(ctx context.Context, taskID primitive.ObjectID, requester *models.User, message string) (*models.RequestDetails, error) {
	if length := utf8.RuneCountInString(message); length < 10 || length > 500 {
		return nil, utils.NewValidation("Invalid request message", "message must be between 10 and 500 characters")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("Task not found")
		}
		return nil, err
	}

	if err := AssertAcceptingRequests(task); err != nil {
		return nil, err
	}

	if task.UserID == requester.ID {
		return nil, utils.NewForbidden("You cannot request to help with your own task")
	}

	if _, err := s.requests.FindByTaskAndRequester(ctx, taskID, requester.ID); err == nil {
		return nil, utils.NewConflict("You have already sent a request for this task")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	request := &models.Request{
		TaskID:      taskID,
		RequesterID: requester.ID,
		TaskOwnerID: task.UserID,
		Message:     message,
		Status:      models.RequestStatusPending,
	}

	if err := s.requests.Insert(ctx, request); err != nil {
		// Jedinstven indeks (taskId, requesterId) hvata istovremeno slanje duplikata
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, utils.NewConflict("You have already sent a request for this task")
		}
		return nil, err
	}

	// Brojač zahteva je informativan, neuspeh ne obara operaciju
	if err := s.tasks.IncRequestCount(ctx, taskID, 1); err != nil {
		logging.Logger.Warnf("Event ID: REQUEST_COUNT_INC_FAILED, Description: Failed to increment request count for task %s: %v", taskID.Hex(), err)
	}

	s.notifier.Notify(ctx, task.UserID, models.NotificationRequest,
		"New Help Request",
		fmt.Sprintf("%s requested to help with %q", requester.FullName(), task.Title),
		models.RequestRef(request.ID))

	if owner, err := s.users.FindByID(ctx, task.UserID); err == nil {
		subject, body := utils.RequestReceivedEmail(task.Title, requester.FullName())
		s.notifier.SendEmail(owner.Email, subject, body)
	}

	return s.requests.DetailsByID(ctx, request.ID)
}

// AcceptRequest prihvata zahtev i dodeljuje zadatak pošiljaocu.
// Upis AcceptedTask zapisa ide prvi: jedinstven indeks na taskId je tačka
// linearizacije, pa od dva istovremena prihvatanja na istom zadatku tačno
// jedno prolazi, a drugo dobija InvalidState. Upisi posle upisa AcceptedTask
// zapisa su bezbedni za ponavljanje i mogu se izvesti iz njega posle pada.
func (s *RequestService) AcceptRequest(ctx context.Context, requestID primitive.ObjectID, caller *models.User, responseMessage string) (*models.RequestDetails, error) {
	if utf8.RuneCountInString(responseMessage) > 500 {
		return nil, utils.NewValidation("Invalid response message", "response message cannot exceed 500 characters")
	}

	request, task, err := s.findRespondable(ctx, requestID, caller)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusOpen {
		return nil, utils.NewInvalidState("This task is no longer open")
	}

	now := time.Now()
	accepted := &models.AcceptedTask{
		TaskID:      task.ID,
		HelperID:    request.RequesterID,
		TaskOwnerID: caller.ID,
		Status:      models.AcceptedStatusAccepted,
		AcceptedAt:  now,
	}

	if err := s.accepted.Insert(ctx, accepted); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, utils.NewInvalidState("This task has already been assigned")
		}
		return nil, err
	}

	ok, err := s.requests.MarkResponded(ctx, request.ID, models.RequestStatusPending, models.RequestStatusAccepted, now, responseMessage)
	if err != nil || !ok {
		// Zahtev je u međuvremenu dobio odgovor (npr. istovremeno odbijanje);
		// upisana dodela se poništava da zadatak ne ostane blokiran.
		if derr := s.accepted.Delete(ctx, accepted.ID); derr != nil {
			logging.Logger.Errorf("Event ID: ACCEPTED_TASK_ROLLBACK_FAILED, Description: Failed to remove accepted record %s for task %s: %v", accepted.ID.Hex(), task.ID.Hex(), derr)
		}
		if err != nil {
			return nil, err
		}
		return nil, utils.NewInvalidState("This request has already been responded to")
	}

	if err := s.tasks.AssignHelper(ctx, task.ID, request.RequesterID); err != nil {
		return nil, err
	}

	rejectedCount, err := s.requests.RejectOtherPending(ctx, task.ID, request.ID, assignedElsewhereMessage, now)
	if err != nil {
		return nil, err
	}
	if rejectedCount > 0 {
		logging.Logger.Infof("Event ID: SIBLING_REQUESTS_REJECTED, Description: Rejected %d other pending requests for task %s", rejectedCount, task.ID.Hex())
	}

	s.notifier.Notify(ctx, request.RequesterID, models.NotificationAccepted,
		"Request Accepted",
		fmt.Sprintf("Your request to help with %q has been accepted!", task.Title),
		models.TaskRef(task.ID))

	if requester, err := s.users.FindByID(ctx, request.RequesterID); err == nil {
		subject, body := utils.RequestAcceptedEmail(task.Title, caller.FullName())
		s.notifier.SendEmail(requester.Email, subject, body)
	}

	return s.requests.DetailsByID(ctx, request.ID)
}

// RejectRequest odbija zahtev; zadatak se ne menja
func (s *RequestService) RejectRequest(ctx context.Context, requestID primitive.ObjectID, caller *models.User, responseMessage string) (*models.RequestDetails, error) {
	if utf8.RuneCountInString(responseMessage) > 500 {
		return nil, utils.NewValidation("Invalid response message", "response message cannot exceed 500 characters")
	}

	request, task, err := s.findRespondable(ctx, requestID, caller)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.requests.MarkResponded(ctx, request.ID, models.RequestStatusPending, models.RequestStatusRejected, now, responseMessage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewInvalidState("This request has already been responded to")
	}

	s.notifier.Notify(ctx, request.RequesterID, models.NotificationRejected,
		"Request Update",
		fmt.Sprintf("Your request for %q was not accepted", task.Title),
		models.TaskRef(task.ID))

	if requester, err := s.users.FindByID(ctx, request.RequesterID); err == nil {
		subject, body := utils.RequestRejectedEmail(task.Title)
		s.notifier.SendEmail(requester.Email, subject, body)
	}

	return s.requests.DetailsByID(ctx, request.ID)
}

// findRespondable učitava zahtev i proverava vlasništvo i pending status
func (s *RequestService) findRespondable(ctx context.Context, requestID primitive.ObjectID, caller *models.User) (*models.Request, *models.Task, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, utils.NewNotFound("Request not found")
		}
		return nil, nil, err
	}

	if request.TaskOwnerID != caller.ID {
		return nil, nil, utils.NewForbidden("Not authorized to respond to this request")
	}

	if request.Status != models.RequestStatusPending {
		return nil, nil, utils.NewInvalidState("This request has already been responded to")
	}

	task, err := s.tasks.FindByID(ctx, request.TaskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, utils.NewNotFound("Task not found")
		}
		return nil, nil, err
	}

	return request, task, nil
}

// DeleteRequest povlači zahtev; dozvoljeno samo pošiljaocu dok je pending
func (s *RequestService) DeleteRequest(ctx context.Context, requestID primitive.ObjectID, caller *models.User) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.NewNotFound("Request not found")
		}
		return err
	}

	if request.RequesterID != caller.ID {
		return utils.NewForbidden("Not authorized to delete this request")
	}

	if request.Status != models.RequestStatusPending {
		return utils.NewInvalidState("Can only delete pending requests")
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}

	if err := s.tasks.IncRequestCount(ctx, request.TaskID, -1); err != nil {
		logging.Logger.Warnf("Event ID: REQUEST_COUNT_DEC_FAILED, Description: Failed to decrement request count for task %s: %v", request.TaskID.Hex(), err)
	}

	return nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, requestID primitive.ObjectID, caller *models.User) (*models.RequestDetails, error) {
	details, err := s.requests.DetailsByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("Request not found")
		}
		return nil, err
	}

	if details.RequesterID != caller.ID && details.TaskOwnerID != caller.ID {
		return nil, utils.NewForbidden("Not authorized to view this request")
	}

	return details, nil
}

func (s *RequestService) GetReceivedRequests(ctx context.Context, caller *models.User, status models.RequestStatus, page, limit int) ([]models.RequestDetails, models.Pagination, error) {
	if status != "" && !models.ValidRequestStatus(status) {
		return nil, models.Pagination{}, utils.NewValidation("Invalid status filter", "status must be pending, accepted or rejected")
	}

	requests, total, err := s.requests.ListDetailsByOwner(ctx, caller.ID, status, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if requests == nil {
		requests = []models.RequestDetails{}
	}

	return requests, models.NewPagination(page, limit, total), nil
}

func (s *RequestService) GetSentRequests(ctx context.Context, caller *models.User, status models.RequestStatus, page, limit int) ([]models.RequestDetails, models.Pagination, error) {
	if status != "" && !models.ValidRequestStatus(status) {
		return nil, models.Pagination{}, utils.NewValidation("Invalid status filter", "status must be pending, accepted or rejected")
	}

	requests, total, err := s.requests.ListDetailsByRequester(ctx, caller.ID, status, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if requests == nil {
		requests = []models.RequestDetails{}
	}

	return requests, models.NewPagination(page, limit, total), nil
}

// GetRequestStats vraća brojeve primljenih i poslatih zahteva po statusu
func (s *RequestService) GetRequestStats(ctx context.Context, caller *models.User) (*models.RequestStats, *models.RequestStats, error) {
	received, err := s.requests.CountByStatusForOwner(ctx, caller.ID)
	if err != nil {
		return nil, nil, err
	}

	sent, err := s.requests.CountByStatusForRequester(ctx, caller.ID)
	if err != nil {
		return nil, nil, err
	}

	return formatRequestStats(received), formatRequestStats(sent), nil
}

func formatRequestStats(counts map[models.RequestStatus]int64) *models.RequestStats {
	stats := &models.RequestStats{
		Pending:  counts[models.RequestStatusPending],
		Accepted: counts[models.RequestStatusAccepted],
		Rejected: counts[models.RequestStatusRejected],
	}
	stats.Total = stats.Pending + stats.Accepted + stats.Rejected
	return stats
}
