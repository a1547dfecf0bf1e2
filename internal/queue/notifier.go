package queue

import (
	"context"
	"log"
)

// StreamNotifier reports relationship events by publishing them to the
// relationship stream. It is the production implementation of the
// service's Notifier: fire-and-forget, so a publish failure is logged and
// dropped rather than surfaced to the caller, whose relationship change
// has already committed.
type StreamNotifier struct {
	publisher Publisher
}

// NewStreamNotifier creates a notifier backed by the given publisher.
func NewStreamNotifier(publisher Publisher) *StreamNotifier {
	return &StreamNotifier{publisher: publisher}
}

func (n *StreamNotifier) publish(ctx context.Context, eventType string, actorID, targetID int64) {
	event := NewRelationshipEvent(eventType, actorID, targetID)
	if _, err := n.publisher.Publish(ctx, StreamRelationships, event); err != nil {
		log.Printf("[Notifier] dropped event type=%s actor=%d target=%d err=%v",
			eventType, actorID, targetID, err)
	}
}

func (n *StreamNotifier) NotifyFollowed(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventUserFollowed, actorID, targetID)
}

func (n *StreamNotifier) NotifyUnfollowed(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventUserUnfollowed, actorID, targetID)
}

func (n *StreamNotifier) NotifyFollowRequested(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventFollowRequested, actorID, targetID)
}

func (n *StreamNotifier) NotifyFollowRequestAccepted(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventFollowRequestAccepted, actorID, targetID)
}

func (n *StreamNotifier) NotifyFriendRequested(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventFriendRequested, actorID, targetID)
}

func (n *StreamNotifier) NotifyFriendRequestAccepted(ctx context.Context, actorID, targetID int64) {
	n.publish(ctx, EventFriendRequestAccepted, actorID, targetID)
}
