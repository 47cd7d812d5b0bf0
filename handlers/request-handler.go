package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"hirehelper-service/models"
	"hirehelper-service/services"
	"hirehelper-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestHandler struct {
	service *services.RequestService
}

func NewRequestHandler(service *services.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

type createRequestBody struct {
	TaskID  string `json:"taskId"`
	Message string `json:"message"`
}

type respondBody struct {
	ResponseMessage string `json:"responseMessage"`
}

func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	taskID, err := primitive.ObjectIDFromHex(body.TaskID)
	if err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid taskId", "taskId must be a valid object id"))
		return
	}

	request, err := h.service.CreateRequest(r.Context(), taskID, caller, body.Message)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, request, "Request sent successfully")
}

func (h *RequestHandler) GetReceivedRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequests(w, r, h.service.GetReceivedRequests, "Received requests retrieved successfully")
}

func (h *RequestHandler) GetSentRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequests(w, r, h.service.GetSentRequests, "Sent requests retrieved successfully")
}

type listRequestsFn func(ctx context.Context, caller *models.User, status models.RequestStatus, page, limit int) ([]models.RequestDetails, models.Pagination, error)

func (h *RequestHandler) listRequests(w http.ResponseWriter, r *http.Request, list listRequestsFn, message string) {
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

	status := models.RequestStatus(r.URL.Query().Get("status"))

	requests, pagination, err := list(r.Context(), caller, status, page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests":   requests,
		"pagination": pagination,
	}, message)
}

func (h *RequestHandler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	requestID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	request, err := h.service.GetRequestByID(r.Context(), requestID, caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, request, "Request retrieved successfully")
}

func (h *RequestHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	requestID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body respondBody
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	request, err := h.service.AcceptRequest(r.Context(), requestID, caller, body.ResponseMessage)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, request, "Request accepted successfully")
}

func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	requestID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body respondBody
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	request, err := h.service.RejectRequest(r.Context(), requestID, caller, body.ResponseMessage)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, request, "Request rejected")
}

func (h *RequestHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	requestID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.service.DeleteRequest(r.Context(), requestID, caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "Request deleted successfully")
}

func (h *RequestHandler) GetRequestStats(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	received, sent, err := h.service.GetRequestStats(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"received": received,
		"sent":     sent,
	}, "Request statistics retrieved successfully")
}
