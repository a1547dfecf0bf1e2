package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialgraph/internal/model"
)

// Counter columns on user_stats. Only these names ever reach bumpStat.
const (
	statFollowers      = "followers"
	statFollowing      = "following"
	statFriends        = "friends"
	statFollowRequests = "follow_requests"
	statFriendRequests = "friend_requests"
)

type relationStore struct {
	db *sqlx.DB
}

// NewRelationStore creates the sqlx-backed relation store.
func NewRelationStore(db *sqlx.DB) RelationStore {
	return &relationStore{db: db}
}

// sqlTx adapts *sqlx.Tx to the opaque Tx handle.
type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

func unwrapTx(tx Tx) (*sqlx.Tx, error) {
	h, ok := tx.(*sqlTx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction handle %T", tx)
	}
	return h.tx, nil
}

func (r *relationStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

// LockPair locks both users' counter rows in ascending user_id order.
// Every relationship operation touches both counter rows, so this
// serializes concurrent operations on the same pair without deadlocking.
func (r *relationStore) LockPair(ctx context.Context, tx Tx, a, b int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `SELECT user_id FROM user_stats WHERE user_id IN ($1, $2) ORDER BY user_id FOR UPDATE`
	lo, hi := model.NormalizePair(a, b)
	if _, err := h.ExecContext(ctx, query, lo, hi); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------
// Point reads
// -----------------------------------------------------------------------

func (r *relationStore) GetFollow(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.Follow, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var row model.Follow
	query := `SELECT sender_id, recipient_id, created_at FROM follows WHERE sender_id = $1 AND recipient_id = $2`
	if err := h.GetContext(ctx, &row, query, senderID, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get follow: %w", err)
	}
	return &row, nil
}

func (r *relationStore) GetFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.FollowRequest, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var row model.FollowRequest
	query := `SELECT sender_id, recipient_id, created_at FROM follow_requests WHERE sender_id = $1 AND recipient_id = $2`
	if err := h.GetContext(ctx, &row, query, senderID, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get follow request: %w", err)
	}
	return &row, nil
}

func (r *relationStore) GetFriend(ctx context.Context, tx Tx, a, b int64) (*model.Friend, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	lo, hi := model.NormalizePair(a, b)
	var row model.Friend
	query := `SELECT user_a_id, user_b_id, created_at FROM friends WHERE user_a_id = $1 AND user_b_id = $2`
	if err := h.GetContext(ctx, &row, query, lo, hi); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get friend: %w", err)
	}
	return &row, nil
}

func (r *relationStore) GetFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.FriendRequest, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var row model.FriendRequest
	query := `SELECT sender_id, recipient_id, created_at FROM friend_requests WHERE sender_id = $1 AND recipient_id = $2`
	if err := h.GetContext(ctx, &row, query, senderID, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &row, nil
}

func (r *relationStore) GetBlock(ctx context.Context, tx Tx, senderID, recipientID int64) (*model.Block, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var row model.Block
	query := `SELECT sender_id, recipient_id, created_at FROM blocks WHERE sender_id = $1 AND recipient_id = $2`
	if err := h.GetContext(ctx, &row, query, senderID, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get block: %w", err)
	}
	return &row, nil
}

// -----------------------------------------------------------------------
// Mutations (row + counters in the same call)
// -----------------------------------------------------------------------

// bumpStat applies atomic counter arithmetic on user_stats. The column
// name is always one of the stat* constants, never caller input.
func bumpStat(ctx context.Context, tx *sqlx.Tx, userID int64, column string, delta int) error {
	query := fmt.Sprintf(`UPDATE user_stats SET %s = GREATEST(%s + $1, 0) WHERE user_id = $2`, column, column)
	if _, err := tx.ExecContext(ctx, query, delta, userID); err != nil {
		return fmt.Errorf("update %s count: %w", column, err)
	}
	return nil
}

func (r *relationStore) CreateFollow(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO follows (sender_id, recipient_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, recipient_id) DO NOTHING
	`
	res, err := h.ExecContext(ctx, query, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrAlreadyFollowing
	}
	if err := bumpStat(ctx, h, senderID, statFollowing, 1); err != nil {
		return err
	}
	return bumpStat(ctx, h, recipientID, statFollowers, 1)
}

func (r *relationStore) DeleteFollow(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	res, err := h.ExecContext(ctx, `DELETE FROM follows WHERE sender_id = $1 AND recipient_id = $2`, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFollowing
	}
	if err := bumpStat(ctx, h, senderID, statFollowing, -1); err != nil {
		return err
	}
	return bumpStat(ctx, h, recipientID, statFollowers, -1)
}

func (r *relationStore) CreateFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO follow_requests (sender_id, recipient_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, recipient_id) DO NOTHING
	`
	res, err := h.ExecContext(ctx, query, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("create follow request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrRequestAlreadySent
	}
	return bumpStat(ctx, h, recipientID, statFollowRequests, 1)
}

func (r *relationStore) DeleteFollowRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	res, err := h.ExecContext(ctx, `DELETE FROM follow_requests WHERE sender_id = $1 AND recipient_id = $2`, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("delete follow request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrRequestNotFound
	}
	return bumpStat(ctx, h, recipientID, statFollowRequests, -1)
}

func (r *relationStore) CreateFriend(ctx context.Context, tx Tx, a, b int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	lo, hi := model.NormalizePair(a, b)
	query := `
		INSERT INTO friends (user_a_id, user_b_id)
		VALUES ($1, $2)
		ON CONFLICT (user_a_id, user_b_id) DO NOTHING
	`
	res, err := h.ExecContext(ctx, query, lo, hi)
	if err != nil {
		return fmt.Errorf("create friend: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrAlreadyFriends
	}
	if err := bumpStat(ctx, h, lo, statFriends, 1); err != nil {
		return err
	}
	return bumpStat(ctx, h, hi, statFriends, 1)
}

func (r *relationStore) DeleteFriend(ctx context.Context, tx Tx, a, b int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	lo, hi := model.NormalizePair(a, b)
	res, err := h.ExecContext(ctx, `DELETE FROM friends WHERE user_a_id = $1 AND user_b_id = $2`, lo, hi)
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrFriendNotFound
	}
	if err := bumpStat(ctx, h, lo, statFriends, -1); err != nil {
		return err
	}
	return bumpStat(ctx, h, hi, statFriends, -1)
}

func (r *relationStore) CreateFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO friend_requests (sender_id, recipient_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, recipient_id) DO NOTHING
	`
	res, err := h.ExecContext(ctx, query, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrRequestAlreadySent
	}
	return bumpStat(ctx, h, recipientID, statFriendRequests, 1)
}

func (r *relationStore) DeleteFriendRequest(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	res, err := h.ExecContext(ctx, `DELETE FROM friend_requests WHERE sender_id = $1 AND recipient_id = $2`, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrRequestNotFound
	}
	return bumpStat(ctx, h, recipientID, statFriendRequests, -1)
}

func (r *relationStore) CreateBlock(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO blocks (sender_id, recipient_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, recipient_id) DO NOTHING
	`
	res, err := h.ExecContext(ctx, query, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrAlreadyBlocked
	}
	return nil
}

func (r *relationStore) DeleteBlock(ctx context.Context, tx Tx, senderID, recipientID int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	res, err := h.ExecContext(ctx, `DELETE FROM blocks WHERE sender_id = $1 AND recipient_id = $2`, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrBlockNotFound
	}
	return nil
}

// CleanupPair removes every non-block relation between a and b in both
// directions. Each delete is conditional: counters move only for rows
// that actually existed.
func (r *relationStore) CleanupPair(ctx context.Context, tx Tx, a, b int64) error {
	h, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	deleteFollow := func(sender, recipient int64) error {
		res, err := h.ExecContext(ctx, `DELETE FROM follows WHERE sender_id = $1 AND recipient_id = $2`, sender, recipient)
		if err != nil {
			return fmt.Errorf("cleanup follow: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if err := bumpStat(ctx, h, sender, statFollowing, -1); err != nil {
				return err
			}
			return bumpStat(ctx, h, recipient, statFollowers, -1)
		}
		return nil
	}

	deleteFollowRequest := func(sender, recipient int64) error {
		res, err := h.ExecContext(ctx, `DELETE FROM follow_requests WHERE sender_id = $1 AND recipient_id = $2`, sender, recipient)
		if err != nil {
			return fmt.Errorf("cleanup follow request: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return bumpStat(ctx, h, recipient, statFollowRequests, -1)
		}
		return nil
	}

	deleteFriendRequest := func(sender, recipient int64) error {
		res, err := h.ExecContext(ctx, `DELETE FROM friend_requests WHERE sender_id = $1 AND recipient_id = $2`, sender, recipient)
		if err != nil {
			return fmt.Errorf("cleanup friend request: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return bumpStat(ctx, h, recipient, statFriendRequests, -1)
		}
		return nil
	}

	for _, pair := range [][2]int64{{a, b}, {b, a}} {
		if err := deleteFollow(pair[0], pair[1]); err != nil {
			return err
		}
		if err := deleteFollowRequest(pair[0], pair[1]); err != nil {
			return err
		}
		if err := deleteFriendRequest(pair[0], pair[1]); err != nil {
			return err
		}
	}

	lo, hi := model.NormalizePair(a, b)
	res, err := h.ExecContext(ctx, `DELETE FROM friends WHERE user_a_id = $1 AND user_b_id = $2`, lo, hi)
	if err != nil {
		return fmt.Errorf("cleanup friend: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if err := bumpStat(ctx, h, lo, statFriends, -1); err != nil {
			return err
		}
		return bumpStat(ctx, h, hi, statFriends, -1)
	}
	return nil
}
