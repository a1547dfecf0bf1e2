package handler

import (
	"context"
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

// QueryHandler serves the listing endpoints.
type QueryHandler struct {
	queries *service.QueryService
}

func NewQueryHandler(queries *service.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// listParams pulls the cursor token and page size from the query string.
// Page size is clamped by the service; only syntax is validated here.
func listParams(w http.ResponseWriter, r *http.Request) (cursor string, limit int, ok bool) {
	cursor = r.URL.Query().Get("cursor")

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			httputil.WriteBadRequest(w, "Limit must be a positive integer")
			return "", 0, false
		}
		limit = parsed
	}
	return cursor, limit, true
}

func writeListResult(w http.ResponseWriter, op string, result *model.RelationListResponse, err error) {
	if err != nil {
		if errors.Is(err, model.ErrInvalidCursor) {
			httputil.WriteBadRequest(w, "Invalid cursor format")
			return
		}
		log.Printf("[ERROR] %s handler: %v", op, err)
		httputil.WriteInternalError(w, "Failed to fetch listing")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// subjectList handles the public listings (followers/following/friends):
// subject from the path, viewer from optional auth.
func (h *QueryHandler) subjectList(w http.ResponseWriter, r *http.Request, op string, fetch func(ctx context.Context, userID int64, viewerID *int64, cursor string, limit int) (*model.RelationListResponse, error)) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}

	var viewerID *int64
	if id, found := middleware.GetUserIDFromContext(r.Context()); found {
		viewerID = &id
	}

	result, err := fetch(r.Context(), userID, viewerID, cursor, limit)
	writeListResult(w, op, result, err)
}

// selfList handles the private listings (pending requests): subject is the
// authenticated actor.
func (h *QueryHandler) selfList(w http.ResponseWriter, r *http.Request, op string, fetch func(ctx context.Context, userID int64, cursor string, limit int) (*model.RelationListResponse, error)) {
	userID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}

	result, err := fetch(r.Context(), userID, cursor, limit)
	writeListResult(w, op, result, err)
}

func (h *QueryHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.subjectList(w, r, "GetFollowers", h.queries.ListFollowers)
}

func (h *QueryHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.subjectList(w, r, "GetFollowing", h.queries.ListFollowing)
}

func (h *QueryHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	h.subjectList(w, r, "GetFriends", h.queries.ListFriends)
}

func (h *QueryHandler) GetFollowRequests(w http.ResponseWriter, r *http.Request) {
	h.selfList(w, r, "GetFollowRequests", h.queries.ListFollowRequests)
}

func (h *QueryHandler) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	h.selfList(w, r, "GetFriendRequests", h.queries.ListFriendRequests)
}
