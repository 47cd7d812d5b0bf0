package handlers

import (
	"net/http"

	"hirehelper-service/services"
	"hirehelper-service/utils"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
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

	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	notifications, pagination, unreadCount, err := h.service.GetNotifications(r.Context(), caller.ID, unreadOnly, page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unreadCount":   unreadCount,
		"pagination":    pagination,
	}, "Notifications retrieved successfully")
}

func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), caller.ID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"count": count}, "Unread count retrieved successfully")
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	notificationID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	notification, err := h.service.MarkRead(r.Context(), notificationID, caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, notification, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if _, err := h.service.MarkAllRead(r.Context(), caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "All notifications marked as read")
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	notificationID, err := objectIDVar(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.service.DeleteNotification(r.Context(), notificationID, caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "Notification deleted successfully")
}

func (h *NotificationHandler) DeleteAllNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if _, err := h.service.DeleteAllNotifications(r.Context(), caller); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, nil, "All notifications deleted")
}
