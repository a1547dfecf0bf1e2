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

// RelationshipHandler maps the relationship operations onto HTTP. The
// acting user always comes from the request context; the counterpart
// always comes from the {id} path parameter.
type RelationshipHandler struct {
	relationships *service.RelationshipService
}

func NewRelationshipHandler(relationships *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationships: relationships}
}

// actorAndTarget pulls the authenticated actor and the {id} path param.
func actorAndTarget(w http.ResponseWriter, r *http.Request) (actorID, targetID int64, ok bool) {
	actorID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		httputil.WriteUnauthorized(w, "Authentication required")
		return 0, 0, false
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return 0, 0, false
	}
	return actorID, targetID, true
}

// writeRelationshipError maps the typed business errors onto transport
// codes. Anything outside the closed sets is a store failure.
func writeRelationshipError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrCannotFollowSelf),
		errors.Is(err, model.ErrCannotFriendSelf),
		errors.Is(err, model.ErrCannotBlockSelf):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrNotFollowing),
		errors.Is(err, model.ErrFriendNotFound),
		errors.Is(err, model.ErrRequestNotFound),
		errors.Is(err, model.ErrBlockNotFound):
		httputil.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrAlreadyFollowing),
		errors.Is(err, model.ErrAlreadyFriends),
		errors.Is(err, model.ErrAlreadyBlocked),
		errors.Is(err, model.ErrRequestAlreadySent),
		errors.Is(err, model.ErrMustUnfriendFirst):
		httputil.WriteConflict(w, err.Error())
	default:
		log.Printf("[ERROR] %s handler: %v", op, err)
		httputil.WriteInternalError(w, "Relationship operation failed")
	}
}

// run executes one relationship operation with the shared plumbing.
func (h *RelationshipHandler) run(w http.ResponseWriter, r *http.Request, op string, message string, fn func(ctx context.Context, actorID, targetID int64) error) {
	actorID, targetID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := fn(r.Context(), actorID, targetID); err != nil {
		writeRelationshipError(w, op, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *RelationshipHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Follow", "Follow recorded", h.relationships.Follow)
}

func (h *RelationshipHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Unfollow", "Unfollowed user", h.relationships.Unfollow)
}

func (h *RelationshipHandler) RemoveFollower(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "RemoveFollower", "Follower removed", h.relationships.RemoveFollower)
}

func (h *RelationshipHandler) AcceptFollowRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "AcceptFollowRequest", "Follow request accepted", h.relationships.AcceptFollowRequest)
}

func (h *RelationshipHandler) DeclineFollowRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "DeclineFollowRequest", "Follow request declined", h.relationships.DeclineFollowRequest)
}

func (h *RelationshipHandler) CancelFollowRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "CancelFollowRequest", "Follow request cancelled", h.relationships.CancelFollowRequest)
}

func (h *RelationshipHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "SendFriendRequest", "Friend request sent", h.relationships.SendFriendRequest)
}

func (h *RelationshipHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "AcceptFriendRequest", "Friend request accepted", h.relationships.AcceptFriendRequest)
}

func (h *RelationshipHandler) DeclineFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "DeclineFriendRequest", "Friend request declined", h.relationships.DeclineFriendRequest)
}

func (h *RelationshipHandler) CancelFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "CancelFriendRequest", "Friend request cancelled", h.relationships.CancelFriendRequest)
}

func (h *RelationshipHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Unfriend", "Friendship removed", h.relationships.Unfriend)
}

func (h *RelationshipHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Block", "User blocked", h.relationships.Block)
}

func (h *RelationshipHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Unblock", "User unblocked", h.relationships.Unblock)
}
