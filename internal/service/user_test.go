package service

import (
	"context"
	"errors"
	"testing"

	"socialgraph/internal/model"
)

func TestCreateUserValidation(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"valid", "alice", nil},
		{"trimmed to valid", "  bob  ", nil},
		{"too short", "ab", ErrInvalidUsername},
		{"empty", "", ErrInvalidUsername},
		{"too long", "a-username-well-past-thirty-characters", ErrInvalidUsername},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := svc.Create(ctx, &model.CreateUserRequest{Username: tc.username})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if user.ID == 0 {
				t.Error("created user has no ID")
			}
			// The stats row must exist from the first moment.
			if _, err := store.GetStats(ctx, user.ID); err != nil {
				t.Errorf("stats row missing: %v", err)
			}
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.CreateUserRequest{Username: "alice"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, &model.CreateUserRequest{Username: "alice"}); !errors.Is(err, model.ErrUsernameExists) {
		t.Fatalf("duplicate create: err = %v, want ErrUsernameExists", err)
	}
}

func TestSetPrivacyChangesFollowFlow(t *testing.T) {
	store := newMemStore()
	users := NewUserService(store)
	relationships := NewRelationshipService(store, store, nil)
	ctx := context.Background()

	alice := store.addUser("alice", false)
	bob := store.addUser("bob", false)
	carol := store.addUser("carol", false)

	// Bob follows the public alice directly.
	if err := relationships.Follow(ctx, bob, alice); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := users.SetPrivacy(ctx, alice, true); err != nil {
		t.Fatalf("set privacy: %v", err)
	}

	// Existing follower unaffected, new follower goes through the request
	// flow.
	if _, ok := store.follows[memPair{bob, alice}]; !ok {
		t.Error("existing follow dropped by privacy change")
	}
	if err := relationships.Follow(ctx, carol, alice); err != nil {
		t.Fatalf("follow private: %v", err)
	}
	if _, ok := store.followReqs[memPair{carol, alice}]; !ok {
		t.Error("new follow of a private account must be a request")
	}
}
