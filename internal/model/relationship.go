package model

import (
	"errors"
	"time"
)

// Follow represents a directional "sender follows recipient" edge.
type Follow struct {
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FollowRequest is a pending follow of a private account. For any ordered
// pair at most one of Follow/FollowRequest may exist.
type FollowRequest struct {
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Friend is undirected and stored with UserAID < UserBID so a pair can
// never produce two rows. Use NormalizePair before touching the table.
type Friend struct {
	UserAID   int64     `db:"user_a_id" json:"user_a_id"`
	UserBID   int64     `db:"user_b_id" json:"user_b_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendRequest is directional: sender asked recipient.
type FriendRequest struct {
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Block suppresses and clears every other relation between two users.
type Block struct {
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// UserStats holds the denormalized per-user counters. They are mutated in
// lock-step with the relation rows inside the same transaction and are
// never recomputed from a scan on the hot path.
type UserStats struct {
	UserID         int64 `db:"user_id" json:"user_id"`
	Followers      int   `db:"followers" json:"followers"`
	Following      int   `db:"following" json:"following"`
	Friends        int   `db:"friends" json:"friends"`
	FollowRequests int   `db:"follow_requests" json:"follow_requests"`
	FriendRequests int   `db:"friend_requests" json:"friend_requests"`
}

// NormalizePair orders a user pair so that a < b. Friend rows are always
// stored in this order.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FollowStatus describes the viewer's follow relation toward a listed user.
type FollowStatus string

const (
	FollowStatusNone      FollowStatus = "none"
	FollowStatusFollowing FollowStatus = "following"
	FollowStatusRequested FollowStatus = "requested"
)

// FriendStatus describes the viewer's friend relation toward a listed user.
type FriendStatus string

const (
	FriendStatusNone            FriendStatus = "none"
	FriendStatusFriends         FriendStatus = "friends"
	FriendStatusRequestSent     FriendStatus = "request_sent"
	FriendStatusRequestReceived FriendStatus = "request_received"
)

// RelationListResponse is the shared shape of every listing endpoint.
type RelationListResponse struct {
	Users      []UserSummary `json:"users"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// Self-reference rejections.
var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrCannotFriendSelf = errors.New("cannot friend yourself")
	ErrCannotBlockSelf  = errors.New("cannot block yourself")
)

// Missing-relation rejections. Absence of a row on a getter is a valid
// business state; these fire only when an operation requires the row.
var (
	ErrNotFollowing    = errors.New("not following this user")
	ErrFriendNotFound  = errors.New("users are not friends")
	ErrRequestNotFound = errors.New("request not found")
	ErrBlockNotFound   = errors.New("block not found")
)

// Conflict rejections.
var (
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrAlreadyBlocked     = errors.New("user is already blocked")
	ErrRequestAlreadySent = errors.New("request already sent")
)

// ErrMustUnfriendFirst guards unfollow while a friendship exists:
// friendship guarantees mutual following, so the follow edge can only be
// dropped by unfriending first.
var ErrMustUnfriendFirst = errors.New("must unfriend before unfollowing")
