package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"socialgraph/internal/model"
)

func TestClampPageSize(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{1, 1},
		{MaxPageSize, MaxPageSize},
		{MaxPageSize + 1, MaxPageSize},
		{100000, MaxPageSize},
	}
	for _, tc := range cases {
		if got := clampPageSize(tc.in); got != tc.want {
			t.Errorf("clampPageSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestListFollowersPagination(t *testing.T) {
	store := newMemStore()
	svc := NewQueryService(store)
	ctx := context.Background()

	alice := store.addUser("alice", false)
	const total = 25
	followerIDs := make(map[int64]bool, total)
	for i := 0; i < total; i++ {
		id := store.addUser(fmt.Sprintf("follower%02d", i), false)
		if err := store.CreateFollow(ctx, memTx{}, id, alice); err != nil {
			t.Fatalf("seed follow: %v", err)
		}
		followerIDs[id] = true
	}

	const pageSize = 10
	seen := map[int64]bool{}
	var cursor string
	pages := 0
	for {
		resp, err := svc.ListFollowers(ctx, alice, nil, cursor, pageSize)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		pages++

		var prev *model.UserSummary
		for i := range resp.Users {
			u := &resp.Users[i]
			if !followerIDs[u.ID] {
				t.Errorf("page %d: unexpected user %d", pages, u.ID)
			}
			if seen[u.ID] {
				t.Errorf("page %d: user %d repeated across pages", pages, u.ID)
			}
			seen[u.ID] = true
			// Seeded one per tick in ID order, so IDs ascend within and
			// across pages.
			if prev != nil && u.ID <= prev.ID {
				t.Errorf("page %d: order broken: %d after %d", pages, u.ID, prev.ID)
			}
			prev = u
		}

		if !resp.HasMore {
			if resp.NextCursor != nil {
				t.Error("HasMore=false with a cursor")
			}
			break
		}
		if resp.NextCursor == nil {
			t.Fatal("HasMore=true without a cursor")
		}
		cursor = *resp.NextCursor
	}

	if wantPages := (total + pageSize - 1) / pageSize; pages != wantPages {
		t.Errorf("pages = %d, want %d", pages, wantPages)
	}
	if len(seen) != total {
		t.Errorf("saw %d unique followers, want %d", len(seen), total)
	}
}

func TestListFollowersFiltersBlockedViewer(t *testing.T) {
	store := newMemStore()
	svc := NewQueryService(store)
	ctx := context.Background()

	alice := store.addUser("alice", false)
	bob := store.addUser("bob", false)
	carol := store.addUser("carol", false)
	viewer := store.addUser("viewer", false)

	for _, f := range []int64{bob, carol} {
		if err := store.CreateFollow(ctx, memTx{}, f, alice); err != nil {
			t.Fatalf("seed follow: %v", err)
		}
	}
	// Carol blocked the viewer.
	if err := store.CreateBlock(ctx, memTx{}, carol, viewer); err != nil {
		t.Fatalf("seed block: %v", err)
	}

	// Anonymous sees both.
	resp, err := svc.ListFollowers(ctx, alice, nil, "", 10)
	if err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Errorf("anonymous: got %d users, want 2", len(resp.Users))
	}

	// The blocked viewer does not see carol.
	resp, err = svc.ListFollowers(ctx, alice, &viewer, "", 10)
	if err != nil {
		t.Fatalf("viewer list: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].ID != bob {
		t.Errorf("viewer: got %+v, want only bob", resp.Users)
	}
}

func TestListAnnotatesViewerStatuses(t *testing.T) {
	store := newMemStore()
	svc := NewQueryService(store)
	ctx := context.Background()

	alice := store.addUser("alice", false)
	bob := store.addUser("bob", false)
	carol := store.addUser("carol", false)
	dave := store.addUser("dave", false)
	viewer := store.addUser("viewer", false)

	for _, f := range []int64{bob, carol, dave} {
		if err := store.CreateFollow(ctx, memTx{}, f, alice); err != nil {
			t.Fatalf("seed follow: %v", err)
		}
	}
	// Viewer follows bob, is friends with carol, got a request from dave.
	if err := store.CreateFollow(ctx, memTx{}, viewer, bob); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.CreateFriend(ctx, memTx{}, viewer, carol); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.CreateFriendRequest(ctx, memTx{}, dave, viewer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := svc.ListFollowers(ctx, alice, &viewer, "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	byID := map[int64]model.UserSummary{}
	for _, u := range resp.Users {
		byID[u.ID] = u
	}
	if got := byID[bob].FollowStatus; got != model.FollowStatusFollowing {
		t.Errorf("bob follow status = %q", got)
	}
	if got := byID[carol].FriendStatus; got != model.FriendStatusFriends {
		t.Errorf("carol friend status = %q", got)
	}
	if got := byID[dave].FriendStatus; got != model.FriendStatusRequestReceived {
		t.Errorf("dave friend status = %q", got)
	}
	if got := byID[dave].FollowStatus; got != model.FollowStatusNone {
		t.Errorf("dave follow status = %q", got)
	}
}

func TestListInvalidCursor(t *testing.T) {
	store := newMemStore()
	svc := NewQueryService(store)

	alice := store.addUser("alice", false)
	_, err := svc.ListFollowers(context.Background(), alice, nil, "not-a-cursor!!", 10)
	if !errors.Is(err, model.ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}
}

func TestListFriendRequestsSeesOwnPending(t *testing.T) {
	store := newMemStore()
	svc := NewQueryService(store)
	ctx := context.Background()

	alice := store.addUser("alice", false)
	bob := store.addUser("bob", false)
	carol := store.addUser("carol", false)

	for _, sender := range []int64{bob, carol} {
		if err := store.CreateFriendRequest(ctx, memTx{}, sender, alice); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}

	resp, err := svc.ListFriendRequests(ctx, alice, "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("got %d senders, want 2", len(resp.Users))
	}
	// Requests are listed with the owner as viewer, so each sender is
	// annotated as request_received.
	for _, u := range resp.Users {
		if u.FriendStatus != model.FriendStatusRequestReceived {
			t.Errorf("sender %d friend status = %q, want request_received", u.ID, u.FriendStatus)
		}
	}
}
