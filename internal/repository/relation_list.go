package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"socialgraph/internal/model"
)

// listCounterparts runs one listing query. fromWhere is a FROM + WHERE
// fragment selecting relation rows aliased f and counterpart profiles
// aliased u, with $1 bound to the subject user. The helper appends the
// viewer block filter, the keyset cursor predicate, the ascending
// (created_at, counterpart_id) ordering and the limit+1 fetch, then trims
// the page and derives the next cursor from the last row kept.
func (r *relationStore) listCounterparts(ctx context.Context, fromWhere string, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url, f.created_at
		FROM ` + fromWhere
	args := []interface{}{userID}

	if viewerID != nil {
		query += fmt.Sprintf(`
		AND NOT EXISTS (
			SELECT 1 FROM blocks b
			WHERE (b.sender_id = $%d AND b.recipient_id = u.id)
			   OR (b.sender_id = u.id AND b.recipient_id = $%d)
		)`, len(args)+1, len(args)+1)
		args = append(args, *viewerID)
	}

	if cursor != nil {
		query += fmt.Sprintf(`
		AND (f.created_at, u.id) > ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, cursor.CreatedAt, cursor.UserID)
	}

	query += fmt.Sprintf(`
		ORDER BY f.created_at ASC, u.id ASC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	type rowWithTime struct {
		model.UserSummary
		CreatedAt time.Time `db:"created_at"`
	}

	var rows []rowWithTime
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list counterparts: %w", err)
	}

	var next *model.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &model.Cursor{CreatedAt: last.CreatedAt, UserID: last.ID}
	}

	users := make([]model.UserSummary, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.UserSummary)
	}
	return users, next, nil
}

func (r *relationStore) ListFollowers(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	fromWhere := `follows f
		JOIN users u ON u.id = f.sender_id
		WHERE f.recipient_id = $1`
	return r.listCounterparts(ctx, fromWhere, userID, viewerID, cursor, limit)
}

func (r *relationStore) ListFollowing(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	fromWhere := `follows f
		JOIN users u ON u.id = f.recipient_id
		WHERE f.sender_id = $1`
	return r.listCounterparts(ctx, fromWhere, userID, viewerID, cursor, limit)
}

func (r *relationStore) ListFriends(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	fromWhere := `friends f
		JOIN users u ON u.id = CASE WHEN f.user_a_id = $1 THEN f.user_b_id ELSE f.user_a_id END
		WHERE (f.user_a_id = $1 OR f.user_b_id = $1)`
	return r.listCounterparts(ctx, fromWhere, userID, viewerID, cursor, limit)
}

func (r *relationStore) ListFollowRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	fromWhere := `follow_requests f
		JOIN users u ON u.id = f.sender_id
		WHERE f.recipient_id = $1`
	return r.listCounterparts(ctx, fromWhere, userID, nil, cursor, limit)
}

func (r *relationStore) ListFriendRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	fromWhere := `friend_requests f
		JOIN users u ON u.id = f.sender_id
		WHERE f.recipient_id = $1`
	return r.listCounterparts(ctx, fromWhere, userID, nil, cursor, limit)
}

// FollowStatuses batch-checks the viewer's follow relation toward each of
// userIDs: one query over follows, one over follow_requests, never N+1.
func (r *relationStore) FollowStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FollowStatus, error) {
	statuses := make(map[int64]model.FollowStatus, len(userIDs))
	for _, id := range userIDs {
		statuses[id] = model.FollowStatusNone
	}
	if len(userIDs) == 0 {
		return statuses, nil
	}

	var followed []int64
	query := `SELECT recipient_id FROM follows WHERE sender_id = $1 AND recipient_id = ANY($2)`
	if err := r.db.SelectContext(ctx, &followed, query, viewerID, pq.Array(userIDs)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check follows: %w", err)
	}
	for _, id := range followed {
		statuses[id] = model.FollowStatusFollowing
	}

	var requested []int64
	query = `SELECT recipient_id FROM follow_requests WHERE sender_id = $1 AND recipient_id = ANY($2)`
	if err := r.db.SelectContext(ctx, &requested, query, viewerID, pq.Array(userIDs)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check follow requests: %w", err)
	}
	for _, id := range requested {
		statuses[id] = model.FollowStatusRequested
	}

	return statuses, nil
}

// FriendStatuses batch-checks the viewer's friend relation toward each of
// userIDs.
func (r *relationStore) FriendStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FriendStatus, error) {
	statuses := make(map[int64]model.FriendStatus, len(userIDs))
	for _, id := range userIDs {
		statuses[id] = model.FriendStatusNone
	}
	if len(userIDs) == 0 {
		return statuses, nil
	}

	var friends []int64
	query := `
		SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
		FROM friends
		WHERE (user_a_id = $1 AND user_b_id = ANY($2))
		   OR (user_b_id = $1 AND user_a_id = ANY($2))
	`
	if err := r.db.SelectContext(ctx, &friends, query, viewerID, pq.Array(userIDs)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check friends: %w", err)
	}
	for _, id := range friends {
		statuses[id] = model.FriendStatusFriends
	}

	var sent []int64
	query = `SELECT recipient_id FROM friend_requests WHERE sender_id = $1 AND recipient_id = ANY($2)`
	if err := r.db.SelectContext(ctx, &sent, query, viewerID, pq.Array(userIDs)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check sent friend requests: %w", err)
	}
	for _, id := range sent {
		statuses[id] = model.FriendStatusRequestSent
	}

	var received []int64
	query = `SELECT sender_id FROM friend_requests WHERE recipient_id = $1 AND sender_id = ANY($2)`
	if err := r.db.SelectContext(ctx, &received, query, viewerID, pq.Array(userIDs)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check received friend requests: %w", err)
	}
	for _, id := range received {
		statuses[id] = model.FriendStatusRequestReceived
	}

	return statuses, nil
}
