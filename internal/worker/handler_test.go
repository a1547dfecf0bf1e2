package worker

import (
	"context"
	"errors"
	"testing"

	"socialgraph/internal/model"
	"socialgraph/internal/queue"
)

type fakeCreator struct {
	created []createdNotification
	err     error
}

type createdNotification struct {
	userID    int64
	actorID   int64
	notifType string
}

func (f *fakeCreator) Create(ctx context.Context, userID, actorID int64, notifType string) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, createdNotification{userID, actorID, notifType})
	return nil
}

func TestHandleEventCreatesNotifications(t *testing.T) {
	cases := []struct {
		eventType string
		notifType string
	}{
		{queue.EventUserFollowed, model.NotificationTypeFollow},
		{queue.EventFollowRequested, model.NotificationTypeFollowRequest},
		{queue.EventFollowRequestAccepted, model.NotificationTypeFollowAccepted},
		{queue.EventFriendRequested, model.NotificationTypeFriendRequest},
		{queue.EventFriendRequestAccepted, model.NotificationTypeFriendAccepted},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			creator := &fakeCreator{}
			h := NewHandler(creator)

			event := queue.NewRelationshipEvent(tc.eventType, 7, 42)
			if err := h.HandleEvent(context.Background(), event); err != nil {
				t.Fatalf("handle: %v", err)
			}

			if len(creator.created) != 1 {
				t.Fatalf("created %d notifications, want 1", len(creator.created))
			}
			got := creator.created[0]
			// The target receives the notification about the actor.
			want := createdNotification{userID: 42, actorID: 7, notifType: tc.notifType}
			if got != want {
				t.Errorf("created = %+v, want %+v", got, want)
			}
		})
	}
}

func TestHandleEventDropsSilentTypes(t *testing.T) {
	creator := &fakeCreator{}
	h := NewHandler(creator)

	for _, eventType := range []string{queue.EventUserUnfollowed, "bogus_event"} {
		event := queue.NewRelationshipEvent(eventType, 7, 42)
		if err := h.HandleEvent(context.Background(), event); err != nil {
			t.Errorf("%s: unexpected error %v", eventType, err)
		}
	}
	if len(creator.created) != 0 {
		t.Errorf("silent events created notifications: %+v", creator.created)
	}
}

func TestHandleEventPropagatesStoreError(t *testing.T) {
	wantErr := errors.New("db down")
	h := NewHandler(&fakeCreator{err: wantErr})

	event := queue.NewRelationshipEvent(queue.EventUserFollowed, 7, 42)
	if err := h.HandleEvent(context.Background(), event); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}
