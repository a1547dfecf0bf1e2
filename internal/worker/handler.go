package worker

import (
	"context"
	"fmt"
	"log"

	"socialgraph/internal/model"
	"socialgraph/internal/queue"
)

// NotificationCreator is the slice of the notification store the workers
// need. Keeping it an interface here means workers don't depend on the
// repository package.
type NotificationCreator interface {
	Create(ctx context.Context, userID, actorID int64, notifType string) error
}

// Handler turns relationship events into notification rows.
type Handler struct {
	notifications NotificationCreator
}

func NewHandler(notifications NotificationCreator) *Handler {
	return &Handler{notifications: notifications}
}

// HandleEvent routes an event by type. The event's target is the
// notification recipient and its actor is the user shown in the
// notification. Events that carry no user-facing notification (unfollow)
// are acknowledged and dropped.
func (h *Handler) HandleEvent(ctx context.Context, event queue.RelationshipEvent) error {
	var notifType string

	switch event.Type {
	case queue.EventUserFollowed:
		notifType = model.NotificationTypeFollow
	case queue.EventFollowRequested:
		notifType = model.NotificationTypeFollowRequest
	case queue.EventFollowRequestAccepted:
		notifType = model.NotificationTypeFollowAccepted
	case queue.EventFriendRequested:
		notifType = model.NotificationTypeFriendRequest
	case queue.EventFriendRequestAccepted:
		notifType = model.NotificationTypeFriendAccepted
	case queue.EventUserUnfollowed:
		return nil
	default:
		log.Printf("[Worker] Unknown event type: %s (id=%s)", event.Type, event.ID)
		return nil
	}

	if err := h.notifications.Create(ctx, event.TargetID, event.ActorID, notifType); err != nil {
		return fmt.Errorf("create %s notification: %w", notifType, err)
	}
	return nil
}
