package service

import (
	"context"
	"errors"
	"strings"

	"socialgraph/internal/model"
	"socialgraph/internal/repository"
)

// Username length bounds.
const (
	minUsernameLen = 3
	maxUsernameLen = 30
)

var ErrInvalidUsername = errors.New("username must be 3-30 characters")

// UserService manages profiles. It exists so the engine has accounts to
// relate; identity verification is the transport's problem.
type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

// Create registers a profile. The stats row is created in the same
// transaction by the store, so counters exist from the first moment.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, ErrInvalidUsername
	}

	user := &model.User{
		Username:    username,
		DisplayName: req.DisplayName,
		IsPrivate:   req.IsPrivate,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns the profile together with its live counters.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, *model.UserStats, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.users.GetStats(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, stats, nil
}

// SetPrivacy flips the account's privacy flag. Existing followers are
// unaffected; only future follow attempts go through the request flow.
func (s *UserService) SetPrivacy(ctx context.Context, id int64, private bool) error {
	return s.users.SetPrivate(ctx, id, private)
}
