package model

import (
	"errors"
	"time"
)

// User is a profile row. The engine only cares about identity and the
// privacy flag; everything else is display data carried along for the
// listing endpoints.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url"`
	Bio         *string   `db:"bio" json:"bio"`
	IsPrivate   bool      `db:"is_private" json:"is_private"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the shape returned by listing endpoints. FollowStatus and
// FriendStatus describe the *viewer's* relation to this user, which is
// distinct from the relation being listed.
type UserSummary struct {
	ID           int64        `db:"id" json:"id"`
	Username     string       `db:"username" json:"username"`
	DisplayName  *string      `db:"display_name" json:"display_name"`
	AvatarURL    *string      `db:"avatar_url" json:"avatar_url"`
	FollowStatus FollowStatus `json:"follow_status"`
	FriendStatus FriendStatus `json:"friend_status"`
}

// CreateUserRequest is the payload for profile creation.
type CreateUserRequest struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	IsPrivate   bool    `json:"is_private"`
}

var (
	// ErrUserNotFound is returned when a profile cannot be found. It also
	// covers targets hidden by a block in either direction.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when a username is already taken.
	ErrUsernameExists = errors.New("username already exists")
)
