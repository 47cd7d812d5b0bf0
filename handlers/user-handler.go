package handlers

import (
	"encoding/json"
	"net/http"

	"hirehelper-service/services"
	"hirehelper-service/utils"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SyncUser upisuje korisnika posle prijave kod eksternog provajdera identiteta
func (h *UserHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	var input services.SyncUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	user, err := h.service.SyncUser(r.Context(), input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user, "User synced successfully")
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, caller, "User retrieved successfully")
}

// GetUserProfile je javni uvid u profil korisnika
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.service.GetUserProfile(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user, "User profile retrieved successfully")
}

func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	stats, err := h.service.GetUserStats(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats, "User stats retrieved successfully")
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var input services.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, utils.NewValidation("Invalid request payload"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), caller, input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user, "Profile updated successfully")
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.service.DeactivateAccount(r.Context(), caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "Account deleted successfully")
}
