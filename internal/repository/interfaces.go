package repository

import (
	"context"

	"socialgraph/internal/model"
)

// Tx is an opaque transaction handle. Every mutating or point-read store
// call is scoped to one, so state checks and their mutations always
// observe the same facts. The sqlx store backs it with *sqlx.Tx; tests
// back it with an in-memory store.
type Tx interface {
	Commit() error
	Rollback() error
}

// RelationStore is primitive, non-validating access to the five relation
// tables and the per-user counters. Every create/delete pairs the row
// mutation with its counter update in the same call; callers never touch
// counters directly. Getters return (nil, nil) when the row is absent;
// absence is a valid business state, not a failure.
type RelationStore interface {
	Begin(ctx context.Context) (Tx, error)

	// LockPair takes row locks on both users' counter rows in a fixed
	// order, serializing concurrent operations on the same user pair.
	LockPair(ctx context.Context, tx Tx, a, b int64) error

	GetFollow(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.Follow, error)
	GetFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.FollowRequest, error)
	// GetFriend is order-independent.
	GetFriend(ctx context.Context, tx Tx, a, b int64) (*model.Friend, error)
	GetFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.FriendRequest, error)
	GetBlock(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.Block, error)

	CreateFollow(ctx context.Context, tx Tx, senderID, recipientID int64) error
	DeleteFollow(ctx context.Context, tx Tx, senderID, recipientID int64) error
	CreateFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error
	DeleteFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error
	CreateFriend(ctx context.Context, tx Tx, a, b int64) error
	DeleteFriend(ctx context.Context, tx Tx, a, b int64) error
	CreateFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error
	DeleteFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error
	CreateBlock(ctx context.Context, tx Tx, senderID, recipientID int64) error
	DeleteBlock(ctx context.Context, tx Tx, senderID, recipientID int64) error

	// CleanupPair deletes every Follow/FollowRequest/Friend/FriendRequest
	// row between a and b in both directions, decrementing all affected
	// counters. Used exclusively by block.
	CleanupPair(ctx context.Context, tx Tx, a, b int64) error

	ListFollowers(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)
	ListFollowing(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)
	ListFriends(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)
	// ListFollowRequests and ListFriendRequests list the senders of
	// requests pending on userID.
	ListFollowRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)
	ListFriendRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)

	// FollowStatuses and FriendStatuses batch-compute the viewer's
	// relation to each listed user (single query per relation, no N+1).
	FollowStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FollowStatus, error)
	FriendStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FriendStatus, error)
}

// UserStore manages profile rows and their counter rows.
type UserStore interface {
	// Create inserts the profile and its user_stats row in one transaction.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByIDTx reads the profile inside an open transaction so privacy
	// checks see the same snapshot the mutation will run against.
	GetByIDTx(ctx context.Context, tx Tx, id int64) (*model.User, error)
	SetPrivate(ctx context.Context, id int64, private bool) error
	GetStats(ctx context.Context, id int64) (*model.UserStats, error)
}

// NotificationStore persists the notifications written by the event
// workers.
type NotificationStore interface {
	Create(ctx context.Context, userID, actorID int64, notifType string) error
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAllRead(ctx context.Context, userID int64) error
}
