package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialgraph/internal/model"
)

type userStore struct {
	db *sqlx.DB
}

// NewUserStore creates the sqlx-backed user store.
func NewUserStore(db *sqlx.DB) UserStore {
	return &userStore{db: db}
}

const userColumns = `id, username, display_name, avatar_url, bio, is_private, created_at, updated_at`

// Create inserts the profile and its counter row in one transaction, so a
// user can never exist without stats.
func (r *userStore) Create(ctx context.Context, u *model.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (username, display_name, avatar_url, bio, is_private, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	row := tx.QueryRowxContext(ctx, query, u.Username, u.DisplayName, u.AvatarURL, u.Bio, u.IsPrivate)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO user_stats (user_id) VALUES ($1)`, u.ID); err != nil {
		return fmt.Errorf("insert user stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *userStore) GetByIDTx(ctx context.Context, tx Tx, id int64) (*model.User, error) {
	h, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := h.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *userStore) SetPrivate(ctx context.Context, id int64, private bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_private = $1, updated_at = NOW() WHERE id = $2`, private, id)
	if err != nil {
		return fmt.Errorf("set private: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userStore) GetStats(ctx context.Context, id int64) (*model.UserStats, error) {
	var stats model.UserStats
	query := `
		SELECT user_id, followers, following, friends, follow_requests, friend_requests
		FROM user_stats
		WHERE user_id = $1
	`
	if err := r.db.GetContext(ctx, &stats, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &stats, nil
}
