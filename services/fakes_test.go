package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory skladišta za testove. Mutex čuva iste garancije koje u bazi
// daju jedinstveni indeksi i uslovne izmene.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email || existing.ExternalID == user.ExternalID {
			return repositories.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range f.users {
		if id != user.ID && existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}

	user.UpdatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) IncTaskCounters(ctx context.Context, id primitive.ObjectID, createdDelta, completedDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.TasksCreated += createdDelta
	user.TasksCompleted += completedDelta
	return nil
}

func (f *fakeUserStore) ApplyRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	total := user.Rating*float64(user.ReviewCount) + rating
	user.ReviewCount++
	user.Rating = total / float64(user.ReviewCount)
	return nil
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*models.Task
	seq   int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (f *fakeTaskStore) Insert(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	task.UpdatedAt = task.CreatedAt
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.TaskDetails, error) {
	task, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.TaskDetails{Task: *task}, nil
}

func (f *fakeTaskStore) ListDetails(ctx context.Context, filter models.TaskFilter, page, limit int) ([]models.TaskDetails, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Task
	for _, task := range f.tasks {
		if !filter.OwnerID.IsZero() && task.UserID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(task.Title + " " + task.Description + " " + task.Location)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, *task)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	details := make([]models.TaskDetails, 0, end-start)
	for _, task := range matched[start:end] {
		details = append(details, models.TaskDetails{Task: task})
	}
	return details, total, nil
}

func (f *fakeTaskStore) IncRequestCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	task.RequestCount += delta
	return nil
}

func (f *fakeTaskStore) AssignHelper(ctx context.Context, id, helperID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	task.Status = models.TaskStatusAssigned
	task.AcceptedHelper = &helperID
	return nil
}

func (f *fakeTaskStore) MarkCompleted(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &at
	return nil
}

func (f *fakeTaskStore) StatusCounts(ctx context.Context, ownerID primitive.ObjectID) (map[models.TaskStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[models.TaskStatus]int64)
	for _, task := range f.tasks {
		if task.UserID == ownerID {
			counts[task.Status]++
		}
	}
	return counts, nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.Request
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*models.Request)}
}

func (f *fakeRequestStore) Insert(ctx context.Context, request *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.requests {
		if existing.TaskID == request.TaskID && existing.RequesterID == request.RequesterID {
			return repositories.ErrDuplicate
		}
	}

	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	stored := *request
	f.requests[request.ID] = &stored
	return nil
}

func (f *fakeRequestStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) DeleteByTask(ctx context.Context, taskID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, request := range f.requests {
		if request.TaskID == taskID {
			delete(f.requests, id)
		}
	}
	return nil
}

func (f *fakeRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRequestStore) FindByTaskAndRequester(ctx context.Context, taskID, requesterID primitive.ObjectID) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, request := range f.requests {
		if request.TaskID == taskID && request.RequesterID == requesterID {
			copied := *request
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRequestStore) DetailsByID(ctx context.Context, id primitive.ObjectID) (*models.RequestDetails, error) {
	request, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.RequestDetails{Request: *request}, nil
}

func (f *fakeRequestStore) ListDetailsByOwner(ctx context.Context, ownerID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error) {
	return f.list(func(r *models.Request) bool { return r.TaskOwnerID == ownerID }, status, page, limit)
}

func (f *fakeRequestStore) ListDetailsByRequester(ctx context.Context, requesterID primitive.ObjectID, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error) {
	return f.list(func(r *models.Request) bool { return r.RequesterID == requesterID }, status, page, limit)
}

func (f *fakeRequestStore) list(match func(*models.Request) bool, status models.RequestStatus, page, limit int) ([]models.RequestDetails, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Request
	for _, request := range f.requests {
		if !match(request) {
			continue
		}
		if status != "" && request.Status != status {
			continue
		}
		matched = append(matched, *request)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	details := make([]models.RequestDetails, 0, end-start)
	for _, request := range matched[start:end] {
		details = append(details, models.RequestDetails{Request: request})
	}
	return details, total, nil
}

func (f *fakeRequestStore) MarkResponded(ctx context.Context, id primitive.ObjectID, from, to models.RequestStatus, at time.Time, responseMessage string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	request.RespondedAt = &at
	request.UpdatedAt = at
	if responseMessage != "" {
		request.ResponseMessage = responseMessage
	}
	return true, nil
}

func (f *fakeRequestStore) RejectOtherPending(ctx context.Context, taskID, keepID primitive.ObjectID, responseMessage string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, request := range f.requests {
		if request.TaskID == taskID && request.ID != keepID && request.Status == models.RequestStatusPending {
			request.Status = models.RequestStatusRejected
			request.RespondedAt = &at
			request.ResponseMessage = responseMessage
			request.UpdatedAt = at
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestStore) CountByStatusForOwner(ctx context.Context, ownerID primitive.ObjectID) (map[models.RequestStatus]int64, error) {
	return f.countByStatus(func(r *models.Request) bool { return r.TaskOwnerID == ownerID }), nil
}

func (f *fakeRequestStore) CountByStatusForRequester(ctx context.Context, requesterID primitive.ObjectID) (map[models.RequestStatus]int64, error) {
	return f.countByStatus(func(r *models.Request) bool { return r.RequesterID == requesterID }), nil
}

func (f *fakeRequestStore) countByStatus(match func(*models.Request) bool) map[models.RequestStatus]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[models.RequestStatus]int64)
	for _, request := range f.requests {
		if match(request) {
			counts[request.Status]++
		}
	}
	return counts
}

type fakeAcceptedTaskStore struct {
	mu       sync.Mutex
	byTaskID map[primitive.ObjectID]*models.AcceptedTask
}

func newFakeAcceptedTaskStore() *fakeAcceptedTaskStore {
	return &fakeAcceptedTaskStore{byTaskID: make(map[primitive.ObjectID]*models.AcceptedTask)}
}

func (f *fakeAcceptedTaskStore) Insert(ctx context.Context, accepted *models.AcceptedTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byTaskID[accepted.TaskID]; ok {
		return repositories.ErrDuplicate
	}

	accepted.ID = primitive.NewObjectID()
	accepted.CreatedAt = time.Now()
	accepted.UpdatedAt = accepted.CreatedAt
	stored := *accepted
	f.byTaskID[accepted.TaskID] = &stored
	return nil
}

func (f *fakeAcceptedTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for taskID, accepted := range f.byTaskID {
		if accepted.ID == id {
			delete(f.byTaskID, taskID)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeAcceptedTaskStore) FindByTask(ctx context.Context, taskID primitive.ObjectID) (*models.AcceptedTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	accepted, ok := f.byTaskID[taskID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *accepted
	return &copied, nil
}

func (f *fakeAcceptedTaskStore) MarkCompleted(ctx context.Context, taskID primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	accepted, ok := f.byTaskID[taskID]
	if !ok {
		return repositories.ErrNotFound
	}
	accepted.Status = models.AcceptedStatusCompleted
	accepted.CompletedAt = &at
	return nil
}

func (f *fakeAcceptedTaskStore) SetReview(ctx context.Context, taskID primitive.ObjectID, rating float64, review string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	accepted, ok := f.byTaskID[taskID]
	if !ok || accepted.Rating != nil {
		return false, nil
	}
	accepted.Rating = &rating
	accepted.Review = review
	return true, nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
	seq           int
	failInsert    bool
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (f *fakeNotificationStore) Insert(ctx context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return context.DeadlineExceeded
	}

	f.seq++
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	notification.UpdatedAt = notification.CreatedAt
	stored := *notification
	f.notifications[notification.ID] = &stored
	return nil
}

func (f *fakeNotificationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *notification
	return &copied, nil
}

func (f *fakeNotificationStore) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Notification
	for _, notification := range f.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		matched = append(matched, *notification)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return repositories.ErrNotFound
	}
	notification.Read = true
	notification.ReadAt = &at
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			notification.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.notifications[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.notifications, id)
	return nil
}

func (f *fakeNotificationStore) DeleteAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for id, notification := range f.notifications {
		if notification.UserID == userID {
			delete(f.notifications, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) forUser(userID primitive.ObjectID) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			matched = append(matched, *notification)
		}
	}
	return matched
}

// env drži sva skladišta i servise povezane kao u main-u
type env struct {
	users         *fakeUserStore
	tasks         *fakeTaskStore
	requests      *fakeRequestStore
	accepted      *fakeAcceptedTaskStore
	notifications *fakeNotificationStore

	notifier       *services.NotificationService
	requestService *services.RequestService
	taskService    *services.TaskService
	userService    *services.UserService
}

func newEnv() *env {
	e := &env{
		users:         newFakeUserStore(),
		tasks:         newFakeTaskStore(),
		requests:      newFakeRequestStore(),
		accepted:      newFakeAcceptedTaskStore(),
		notifications: newFakeNotificationStore(),
	}
	e.notifier = services.NewNotificationService(e.notifications, nil, nil)
	e.requestService = services.NewRequestService(e.tasks, e.requests, e.accepted, e.users, e.notifier)
	e.taskService = services.NewTaskService(e.tasks, e.requests, e.accepted, e.users, e.notifier)
	e.userService = services.NewUserService(e.users)
	return e
}

func (e *env) addUser(firstName, lastName string) *models.User {
	user := &models.User{
		ExternalID: "ext-" + strings.ToLower(firstName) + "-" + strings.ToLower(lastName),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      strings.ToLower(firstName) + "." + strings.ToLower(lastName) + "@example.com",
		IsActive:   true,
	}
	if err := e.users.Insert(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (e *env) addOpenTask(owner *models.User, title string) *models.Task {
	task := &models.Task{
		UserID:      owner.ID,
		Title:       title,
		Description: "Need a hand with this around the house",
		Category:    models.CategoryOther,
		Location:    "Belgrade",
		StartTime:   time.Now().Add(24 * time.Hour),
		Status:      models.TaskStatusOpen,
	}
	if err := e.tasks.Insert(context.Background(), task); err != nil {
		panic(err)
	}
	return task
}

func (e *env) addPendingRequest(task *models.Task, requester *models.User) *models.Request {
	request := &models.Request{
		TaskID:      task.ID,
		RequesterID: requester.ID,
		TaskOwnerID: task.UserID,
		Message:     "I would be glad to help with this",
		Status:      models.RequestStatusPending,
	}
	if err := e.requests.Insert(context.Background(), request); err != nil {
		panic(err)
	}
	return request
}
