package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types on the relationship stream.
const (
	EventUserFollowed          = "user_followed"
	EventUserUnfollowed        = "user_unfollowed"
	EventFollowRequested       = "follow_requested"
	EventFollowRequestAccepted = "follow_request_accepted"
	EventFriendRequested       = "friend_requested"
	EventFriendRequestAccepted = "friend_request_accepted"
)

// Stream and consumer group names.
const (
	StreamRelationships        = "stream:relationships"
	ConsumerGroupNotifications = "notification_workers"
)

// RelationshipEvent is published after a relationship change commits.
// ActorID is the user who acted; TargetID is the user the action was aimed
// at (and, for notification-worthy events, the one who gets notified).
type RelationshipEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ActorID   int64  `json:"actor_id"`
	TargetID  int64  `json:"target_id"`
}

// NewRelationshipEvent builds an event with a fresh ID and timestamp.
func NewRelationshipEvent(eventType string, actorID, targetID int64) RelationshipEvent {
	return RelationshipEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
		TargetID:  targetID,
	}
}

// ToMap converts the event to field-value pairs for Redis XADD. The full
// payload travels JSON-encoded in a "data" field; "type" is duplicated at
// the top level so it is visible to stream inspection tools.
func (e RelationshipEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseRelationshipEvent parses an event from Redis stream message values.
func ParseRelationshipEvent(values map[string]interface{}) (RelationshipEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return RelationshipEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event RelationshipEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return RelationshipEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
