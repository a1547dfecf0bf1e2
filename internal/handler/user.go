package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialgraph/internal/httputil"
	"socialgraph/internal/model"
	"socialgraph/internal/service"
	"socialgraph/internal/transport/http/middleware"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] CreateUser handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// GetProfile returns the profile together with its live counters.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, stats, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetProfile handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"stats": stats,
	})
}

// SetPrivacy flips the authenticated user's privacy flag.
func (h *UserHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	userID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		IsPrivate bool `json:"is_private"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.users.SetPrivacy(r.Context(), userID, req.IsPrivate); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] SetPrivacy handler: %v", err)
		httputil.WriteInternalError(w, "Failed to update privacy")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Privacy updated"})
}
