package model

import "time"

// Notification types written by the relationship event workers.
const (
	NotificationTypeFollow         = "follow"
	NotificationTypeFollowRequest  = "follow_request"
	NotificationTypeFollowAccepted = "follow_accepted"
	NotificationTypeFriendRequest  = "friend_request"
	NotificationTypeFriendAccepted = "friend_accepted"
)

// Notification is a single notification row.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`         // recipient
	ActorID   int64     `db:"actor_id" json:"actor_id"` // who triggered it
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationListResponse is the notification listing payload.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
