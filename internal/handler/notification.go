package handler

import (
	"log"
	"net/http"
	"strconv"

	"socialgraph/internal/httputil"
	"socialgraph/internal/service"
	"socialgraph/internal/transport/http/middleware"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			httputil.WriteBadRequest(w, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.notifications.List(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[ERROR] ListNotifications handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("[ERROR] MarkAllRead handler: %v", err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked read"})
}
