package handlers

import (
	"encoding/json"
	"net/http"

	"hirehelper-service/models"
	"hirehelper-service/services"
	"hirehelper-service/utils"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	task, err := h.service.CreateTask(r.Context(), caller, input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, task, "Task created successfully")
}

// GetTasks je javni feed; status podrazumevano open
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	page, limit, err := utils.ParsePagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	filter := models.TaskFilter{
		Status: models.TaskStatus(query.Get("status")),
		Search: query.Get("search"),
	}
	if category := query.Get("category"); category != "" && category != "all" {
		filter.Category = models.TaskCategory(category)
	}

	tasks, pagination, err := h.service.GetTasks(r.Context(), filter, page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":      tasks,
		"pagination": pagination,
	}, "Tasks retrieved successfully")
}

func (h *TaskHandler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page, limit, err := utils.ParsePagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	filter := models.TaskFilter{
		OwnerID: caller.ID,
		Status:  models.TaskStatus(r.URL.Query().Get("status")),
	}

	tasks, pagination, err := h.service.GetTasks(r.Context(), filter, page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":      tasks,
		"pagination": pagination,
	}, "Your tasks retrieved successfully")
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task, "Task retrieved successfully")
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var input services.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	task, err := h.service.UpdateTask(r.Context(), taskID, caller, input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task, "Task updated successfully")
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID, caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "Task deleted successfully")
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.CompleteTask(r.Context(), taskID, caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task, "Task marked as completed")
}

func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.CancelTask(r.Context(), taskID, caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task, "Task cancelled")
}

type rateHelperBody struct {
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

func (h *TaskHandler) RateHelper(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	taskID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body rateHelperBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	accepted, err := h.service.RateHelper(r.Context(), taskID, caller, body.Rating, body.Review)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, accepted, "Review submitted successfully")
}

func (h *TaskHandler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	stats, err := h.service.GetTaskStats(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats, "Task statistics retrieved successfully")
}
