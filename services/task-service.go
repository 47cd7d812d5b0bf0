package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hirehelper-service/logging"
	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssertAcceptingRequests proverava da li zadatak prima nove zahteve.
// Koristi se i kao uslov pri kreiranju zahteva, da se provera ne duplira.
func AssertAcceptingRequests(task *models.Task) error {
	if task.Status != models.TaskStatusOpen {
		return utils.NewInvalidState("This task is no longer accepting requests")
	}
	return nil
}

type TaskService struct {
	tasks    TaskStore
	requests RequestStore
	accepted AcceptedTaskStore
	users    UserStore
	notifier *NotificationService
}

func NewTaskService(tasks TaskStore, requests RequestStore, accepted AcceptedTaskStore, users UserStore, notifier *NotificationService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		requests: requests,
		accepted: accepted,
		users:    users,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    models.TaskCategory `json:"category"`
	Location    string              `json:"location"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     *time.Time          `json:"endTime,omitempty"`
	Budget      *float64            `json:"budget,omitempty"`
	Picture     *models.Picture     `json:"picture,omitempty"`
}

func validateTaskFields(input *CreateTaskInput) []string {
	var fieldErrors []string

	if length := utf8.RuneCountInString(strings.TrimSpace(input.Title)); length < 3 || length > 100 {
		fieldErrors = append(fieldErrors, "title must be between 3 and 100 characters")
	}
	if length := utf8.RuneCountInString(strings.TrimSpace(input.Description)); length < 10 || length > 1000 {
		fieldErrors = append(fieldErrors, "description must be between 10 and 1000 characters")
	}
	if strings.TrimSpace(input.Location) == "" {
		fieldErrors = append(fieldErrors, "location is required")
	}
	if input.StartTime.IsZero() {
		fieldErrors = append(fieldErrors, "start time is required")
	}
	if input.EndTime != nil && input.EndTime.Before(input.StartTime) {
		fieldErrors = append(fieldErrors, "end time must be after start time")
	}
	if input.Budget != nil && *input.Budget < 0 {
		fieldErrors = append(fieldErrors, "budget cannot be negative")
	}
	if input.Category != "" && !models.ValidTaskCategory(input.Category) {
		fieldErrors = append(fieldErrors, "invalid category")
	}

	return fieldErrors
}

func (s *TaskService) CreateTask(ctx context.Context, owner *models.User, input CreateTaskInput) (*models.TaskDetails, error) {
	if fieldErrors := validateTaskFields(&input); len(fieldErrors) > 0 {
		return nil, utils.NewValidation("Invalid task data", fieldErrors...)
	}

	category := input.Category
	if category == "" {
		category = models.CategoryOther
	}

	task := &models.Task{
		UserID:      owner.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Location:    strings.TrimSpace(input.Location),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      models.TaskStatusOpen,
		Budget:      input.Budget,
		Picture:     input.Picture,
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	if err := s.users.IncTaskCounters(ctx, owner.ID, 1, 0); err != nil {
		logging.Logger.Warnf("Event ID: TASK_COUNTER_INC_FAILED, Description: Failed to increment task counter for user %s: %v", owner.ID.Hex(), err)
	}

	return &models.TaskDetails{Task: *task, Creator: models.SummaryOf(owner)}, nil
}

// GetTasks lista zadatke; bez zadatog statusa prikazuju se samo otvoreni
func (s *TaskService) GetTasks(ctx context.Context, filter models.TaskFilter, page, limit int) ([]models.TaskDetails, models.Pagination, error) {
	if filter.Status != "" && !models.ValidTaskStatus(filter.Status) {
		return nil, models.Pagination{}, utils.NewValidation("Invalid status filter", "status must be open, assigned, completed or cancelled")
	}
	if filter.Category != "" && !models.ValidTaskCategory(filter.Category) {
		return nil, models.Pagination{}, utils.NewValidation("Invalid category filter", "unknown category")
	}

	if filter.Status == "" && filter.OwnerID.IsZero() {
		filter.Status = models.TaskStatusOpen
	}

	tasks, total, err := s.tasks.ListDetails(ctx, filter, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if tasks == nil {
		tasks = []models.TaskDetails{}
	}

	return tasks, models.NewPagination(page, limit, total), nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.TaskDetails, error) {
	details, err := s.tasks.DetailsByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("Task not found")
		}
		return nil, err
	}
	return details, nil
}

type UpdateTaskInput struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Category    *models.TaskCategory `json:"category,omitempty"`
	Location    *string              `json:"location,omitempty"`
	StartTime   *time.Time           `json:"startTime,omitempty"`
	EndTime     *time.Time           `json:"endTime,omitempty"`
	Budget      *float64             `json:"budget,omitempty"`
	Picture     *models.Picture      `json:"picture,omitempty"`
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, caller *models.User, input UpdateTaskInput) (*models.TaskDetails, error) {
	task, err := s.findOwned(ctx, taskID, caller)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusCancelled {
		return nil, utils.NewInvalidState(fmt.Sprintf("Cannot update %s task", task.Status))
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Location != nil {
		task.Location = strings.TrimSpace(*input.Location)
	}
	if input.StartTime != nil {
		task.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		task.EndTime = input.EndTime
	}
	if input.Budget != nil {
		task.Budget = input.Budget
	}
	if input.Picture != nil {
		task.Picture = input.Picture
	}

	check := CreateTaskInput{
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Location:    task.Location,
		StartTime:   task.StartTime,
		EndTime:     task.EndTime,
		Budget:      task.Budget,
	}
	if fieldErrors := validateTaskFields(&check); len(fieldErrors) > 0 {
		return nil, utils.NewValidation("Invalid task data", fieldErrors...)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.tasks.DetailsByID(ctx, taskID)
}

// DeleteTask briše zadatak i njegove zahteve.
// Dodeljen zadatak ne može da se obriše dok je u toku.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID, caller *models.User) error {
	task, err := s.findOwned(ctx, taskID, caller)
	if err != nil {
		return err
	}

	if task.Status == models.TaskStatusAssigned {
		return utils.NewInvalidState("Cannot delete task that is assigned")
	}

	if err := s.requests.DeleteByTask(ctx, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	if err := s.users.IncTaskCounters(ctx, caller.ID, -1, 0); err != nil {
		logging.Logger.Warnf("Event ID: TASK_COUNTER_DEC_FAILED, Description: Failed to decrement task counter for user %s: %v", caller.ID.Hex(), err)
	}

	return nil
}

// CompleteTask označava dodeljen zadatak kao završen
func (s *TaskService) CompleteTask(ctx context.Context, taskID primitive.ObjectID, caller *models.User) (*models.TaskDetails, error) {
	task, err := s.findOwned(ctx, taskID, caller)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusAssigned {
		return nil, utils.NewInvalidState("Only assigned tasks can be completed")
	}

	now := time.Now()
	if err := s.tasks.MarkCompleted(ctx, taskID, now); err != nil {
		return nil, err
	}

	if err := s.accepted.MarkCompleted(ctx, taskID, now); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if task.AcceptedHelper != nil {
		helperID := *task.AcceptedHelper

		if err := s.users.IncTaskCounters(ctx, helperID, 0, 1); err != nil {
			logging.Logger.Warnf("Event ID: COMPLETED_COUNTER_INC_FAILED, Description: Failed to increment completed counter for user %s: %v", helperID.Hex(), err)
		}

		s.notifier.Notify(ctx, helperID, models.NotificationCompleted,
			"Task Completed",
			fmt.Sprintf("The task %q has been marked as completed", task.Title),
			models.TaskRef(task.ID))

		if helper, err := s.users.FindByID(ctx, helperID); err == nil {
			subject, body := utils.TaskCompletedEmail(task.Title, caller.FullName())
			s.notifier.SendEmail(helper.Email, subject, body)
		}
	}

	return s.tasks.DetailsByID(ctx, taskID)
}

// CancelTask otkazuje otvoren zadatak
func (s *TaskService) CancelTask(ctx context.Context, taskID primitive.ObjectID, caller *models.User) (*models.TaskDetails, error) {
	task, err := s.findOwned(ctx, taskID, caller)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusOpen {
		return nil, utils.NewInvalidState("Only open tasks can be cancelled")
	}

	task.Status = models.TaskStatusCancelled
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.tasks.DetailsByID(ctx, taskID)
}

// RateHelper upisuje jednokratnu ocenu pomagača na završenom zadatku.
// Prosek ocene pomagača se ažurira tekućim prosekom.
func (s *TaskService) RateHelper(ctx context.Context, taskID primitive.ObjectID, caller *models.User, rating float64, review string) (*models.AcceptedTask, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.NewValidation("Invalid rating", "rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(review) > 500 {
		return nil, utils.NewValidation("Invalid review", "review cannot exceed 500 characters")
	}

	task, err := s.findOwned(ctx, taskID, caller)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusCompleted {
		return nil, utils.NewInvalidState("Only completed tasks can be rated")
	}

	applied, err := s.accepted.SetReview(ctx, taskID, rating, review)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.NewInvalidState("This task has already been rated")
	}

	accepted, err := s.accepted.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.users.ApplyRating(ctx, accepted.HelperID, rating); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, accepted.HelperID, models.NotificationMessage,
		"New Review",
		fmt.Sprintf("You received a %.0f star review for %q", rating, task.Title),
		models.TaskRef(task.ID))

	return accepted, nil
}

// GetTaskStats vraća brojeve zadataka vlasnika po statusu
func (s *TaskService) GetTaskStats(ctx context.Context, caller *models.User) (*models.TaskStats, error) {
	counts, err := s.tasks.StatusCounts(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	stats := &models.TaskStats{
		Open:      counts[models.TaskStatusOpen],
		Assigned:  counts[models.TaskStatusAssigned],
		Completed: counts[models.TaskStatusCompleted],
		Cancelled: counts[models.TaskStatusCancelled],
	}
	stats.Total = stats.Open + stats.Assigned + stats.Completed + stats.Cancelled
	return stats, nil
}

func (s *TaskService) findOwned(ctx context.Context, taskID primitive.ObjectID, caller *models.User) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewNotFound("Task not found")
		}
		return nil, err
	}

	if task.UserID != caller.ID {
		return nil, utils.NewForbidden("Not authorized to modify this task")
	}

	return task, nil
}
