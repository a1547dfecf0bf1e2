package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"socialgraph/internal/model"
	"socialgraph/internal/repository"
)

// memStore is an in-memory RelationStore + UserStore with the same
// contract as the SQL store: getters return (nil, nil) on absence,
// creates and deletes return the conflict/not-found sentinels, and every
// mutation moves the counters in lock-step. Mutations apply immediately;
// the service only applies a plan after all its checks passed, so the
// tests never need a real rollback.
type memStore struct {
	clock time.Time

	follows    map[memPair]time.Time
	followReqs map[memPair]time.Time
	friends    map[memPair]time.Time // normalized, from < to
	friendReqs map[memPair]time.Time
	blocks     map[memPair]time.Time

	users  map[int64]*model.User
	stats  map[int64]*model.UserStats
	nextID int64
}

type memPair struct {
	from, to int64
}

type memTx struct{}

func (memTx) Commit() error   { return nil }
func (memTx) Rollback() error { return nil }

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		follows:    map[memPair]time.Time{},
		followReqs: map[memPair]time.Time{},
		friends:    map[memPair]time.Time{},
		friendReqs: map[memPair]time.Time{},
		blocks:     map[memPair]time.Time{},
		users:      map[int64]*model.User{},
		stats:      map[int64]*model.UserStats{},
		nextID:     1,
	}
}

// tick advances the logical clock so every inserted row has a distinct
// created_at and listings have a deterministic order.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// addUser registers a profile with its zeroed counter row and returns the
// assigned ID.
func (m *memStore) addUser(username string, private bool) int64 {
	id := m.nextID
	m.nextID++
	m.users[id] = &model.User{
		ID:        id,
		Username:  username,
		IsPrivate: private,
		CreatedAt: m.tick(),
	}
	m.stats[id] = &model.UserStats{UserID: id}
	return id
}

// bump applies a counter delta with the same floor-at-zero behavior as
// the SQL store.
func bump(field *int, delta int) {
	*field += delta
	if *field < 0 {
		*field = 0
	}
}

// ---------------------------------------------------------------------
// RelationStore
// ---------------------------------------------------------------------

func (m *memStore) Begin(ctx context.Context) (repository.Tx, error) { return memTx{}, nil }

func (m *memStore) LockPair(ctx context.Context, tx repository.Tx, a, b int64) error { return nil }

func (m *memStore) GetFollow(ctx context.Context, tx repository.Tx, senderID, recipientID int64) (*model.Follow, error) {
	t, ok := m.follows[memPair{senderID, recipientID}]
	if !ok {
		return nil, nil
	}
	return &model.Follow{SenderID: senderID, RecipientID: recipientID, CreatedAt: t}, nil
}

func (m *memStore) GetFollowRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) (*model.FollowRequest, error) {
	t, ok := m.followReqs[memPair{senderID, recipientID}]
	if !ok {
		return nil, nil
	}
	return &model.FollowRequest{SenderID: senderID, RecipientID: recipientID, CreatedAt: t}, nil
}

func (m *memStore) GetFriend(ctx context.Context, tx repository.Tx, a, b int64) (*model.Friend, error) {
	lo, hi := model.NormalizePair(a, b)
	t, ok := m.friends[memPair{lo, hi}]
	if !ok {
		return nil, nil
	}
	return &model.Friend{UserAID: lo, UserBID: hi, CreatedAt: t}, nil
}

func (m *memStore) GetFriendRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) (*model.FriendRequest, error) {
	t, ok := m.friendReqs[memPair{senderID, recipientID}]
	if !ok {
		return nil, nil
	}
	return &model.FriendRequest{SenderID: senderID, RecipientID: recipientID, CreatedAt: t}, nil
}

func (m *memStore) GetBlock(ctx context.Context, tx repository.Tx, senderID, recipientID int64) (*model.Block, error) {
	t, ok := m.blocks[memPair{senderID, recipientID}]
	if !ok {
		return nil, nil
	}
	return &model.Block{SenderID: senderID, RecipientID: recipientID, CreatedAt: t}, nil
}

func (m *memStore) CreateFollow(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.follows[key]; ok {
		return model.ErrAlreadyFollowing
	}
	m.follows[key] = m.tick()
	bump(&m.stats[senderID].Following, 1)
	bump(&m.stats[recipientID].Followers, 1)
	return nil
}

func (m *memStore) DeleteFollow(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.follows[key]; !ok {
		return model.ErrNotFollowing
	}
	delete(m.follows, key)
	bump(&m.stats[senderID].Following, -1)
	bump(&m.stats[recipientID].Followers, -1)
	return nil
}

func (m *memStore) CreateFollowRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.followReqs[key]; ok {
		return model.ErrRequestAlreadySent
	}
	m.followReqs[key] = m.tick()
	bump(&m.stats[recipientID].FollowRequests, 1)
	return nil
}

func (m *memStore) DeleteFollowRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.followReqs[key]; !ok {
		return model.ErrRequestNotFound
	}
	delete(m.followReqs, key)
	bump(&m.stats[recipientID].FollowRequests, -1)
	return nil
}

func (m *memStore) CreateFriend(ctx context.Context, tx repository.Tx, a, b int64) error {
	lo, hi := model.NormalizePair(a, b)
	key := memPair{lo, hi}
	if _, ok := m.friends[key]; ok {
		return model.ErrAlreadyFriends
	}
	m.friends[key] = m.tick()
	bump(&m.stats[lo].Friends, 1)
	bump(&m.stats[hi].Friends, 1)
	return nil
}

func (m *memStore) DeleteFriend(ctx context.Context, tx repository.Tx, a, b int64) error {
	lo, hi := model.NormalizePair(a, b)
	key := memPair{lo, hi}
	if _, ok := m.friends[key]; !ok {
		return model.ErrFriendNotFound
	}
	delete(m.friends, key)
	bump(&m.stats[lo].Friends, -1)
	bump(&m.stats[hi].Friends, -1)
	return nil
}

func (m *memStore) CreateFriendRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.friendReqs[key]; ok {
		return model.ErrRequestAlreadySent
	}
	m.friendReqs[key] = m.tick()
	bump(&m.stats[recipientID].FriendRequests, 1)
	return nil
}

func (m *memStore) DeleteFriendRequest(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.friendReqs[key]; !ok {
		return model.ErrRequestNotFound
	}
	delete(m.friendReqs, key)
	bump(&m.stats[recipientID].FriendRequests, -1)
	return nil
}

func (m *memStore) CreateBlock(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.blocks[key]; ok {
		return model.ErrAlreadyBlocked
	}
	m.blocks[key] = m.tick()
	return nil
}

func (m *memStore) DeleteBlock(ctx context.Context, tx repository.Tx, senderID, recipientID int64) error {
	key := memPair{senderID, recipientID}
	if _, ok := m.blocks[key]; !ok {
		return model.ErrBlockNotFound
	}
	delete(m.blocks, key)
	return nil
}

func (m *memStore) CleanupPair(ctx context.Context, tx repository.Tx, a, b int64) error {
	for _, p := range []memPair{{a, b}, {b, a}} {
		if _, ok := m.follows[p]; ok {
			_ = m.DeleteFollow(ctx, tx, p.from, p.to)
		}
		if _, ok := m.followReqs[p]; ok {
			_ = m.DeleteFollowRequest(ctx, tx, p.from, p.to)
		}
		if _, ok := m.friendReqs[p]; ok {
			_ = m.DeleteFriendRequest(ctx, tx, p.from, p.to)
		}
	}
	lo, hi := model.NormalizePair(a, b)
	if _, ok := m.friends[memPair{lo, hi}]; ok {
		_ = m.DeleteFriend(ctx, tx, lo, hi)
	}
	return nil
}

// memEdge is one listing row before the page window is applied.
type memEdge struct {
	userID    int64
	createdAt time.Time
}

// page applies the cursor, ascending (created_at, user_id) order and the
// limit+1 trick, mirroring the SQL store.
func (m *memStore) page(edges []memEdge, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].createdAt.Equal(edges[j].createdAt) {
			return edges[i].createdAt.Before(edges[j].createdAt)
		}
		return edges[i].userID < edges[j].userID
	})

	var out []model.UserSummary
	for _, e := range edges {
		if cursor != nil {
			after := e.createdAt.After(cursor.CreatedAt) ||
				(e.createdAt.Equal(cursor.CreatedAt) && e.userID > cursor.UserID)
			if !after {
				continue
			}
		}
		if viewerID != nil {
			if _, ok := m.blocks[memPair{*viewerID, e.userID}]; ok {
				continue
			}
			if _, ok := m.blocks[memPair{e.userID, *viewerID}]; ok {
				continue
			}
		}
		u := m.users[e.userID]
		if u == nil {
			return nil, nil, fmt.Errorf("listing references unknown user %d", e.userID)
		}
		out = append(out, model.UserSummary{
			ID:           u.ID,
			Username:     u.Username,
			DisplayName:  u.DisplayName,
			AvatarURL:    u.AvatarURL,
			FollowStatus: model.FollowStatusNone,
			FriendStatus: model.FriendStatusNone,
		})
		if len(out) == limit+1 {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
		last := out[limit-1]
		var lastAt time.Time
		for _, e := range edges {
			if e.userID == last.ID {
				lastAt = e.createdAt
				break
			}
		}
		return out, &model.Cursor{CreatedAt: lastAt, UserID: last.ID}, nil
	}
	return out, nil, nil
}

func (m *memStore) ListFollowers(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	var edges []memEdge
	for p, t := range m.follows {
		if p.to == userID {
			edges = append(edges, memEdge{p.from, t})
		}
	}
	return m.page(edges, viewerID, cursor, limit)
}

func (m *memStore) ListFollowing(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	var edges []memEdge
	for p, t := range m.follows {
		if p.from == userID {
			edges = append(edges, memEdge{p.to, t})
		}
	}
	return m.page(edges, viewerID, cursor, limit)
}

func (m *memStore) ListFriends(ctx context.Context, userID int64, viewerID *int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	var edges []memEdge
	for p, t := range m.friends {
		switch userID {
		case p.from:
			edges = append(edges, memEdge{p.to, t})
		case p.to:
			edges = append(edges, memEdge{p.from, t})
		}
	}
	return m.page(edges, viewerID, cursor, limit)
}

func (m *memStore) ListFollowRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	var edges []memEdge
	for p, t := range m.followReqs {
		if p.to == userID {
			edges = append(edges, memEdge{p.from, t})
		}
	}
	return m.page(edges, nil, cursor, limit)
}

func (m *memStore) ListFriendRequests(ctx context.Context, userID int64, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
	var edges []memEdge
	for p, t := range m.friendReqs {
		if p.to == userID {
			edges = append(edges, memEdge{p.from, t})
		}
	}
	return m.page(edges, nil, cursor, limit)
}

func (m *memStore) FollowStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FollowStatus, error) {
	out := make(map[int64]model.FollowStatus, len(userIDs))
	for _, id := range userIDs {
		_, following := m.follows[memPair{viewerID, id}]
		_, requested := m.followReqs[memPair{viewerID, id}]
		switch {
		case following:
			out[id] = model.FollowStatusFollowing
		case requested:
			out[id] = model.FollowStatusRequested
		default:
			out[id] = model.FollowStatusNone
		}
	}
	return out, nil
}

func (m *memStore) FriendStatuses(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]model.FriendStatus, error) {
	out := make(map[int64]model.FriendStatus, len(userIDs))
	for _, id := range userIDs {
		lo, hi := model.NormalizePair(viewerID, id)
		_, friends := m.friends[memPair{lo, hi}]
		_, sent := m.friendReqs[memPair{viewerID, id}]
		_, received := m.friendReqs[memPair{id, viewerID}]
		switch {
		case friends:
			out[id] = model.FriendStatusFriends
		case sent:
			out[id] = model.FriendStatusRequestSent
		case received:
			out[id] = model.FriendStatusRequestReceived
		default:
			out[id] = model.FriendStatusNone
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------
// UserStore
// ---------------------------------------------------------------------

func (m *memStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return model.ErrUsernameExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	m.stats[user.ID] = &model.UserStats{UserID: user.ID}
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) GetByIDTx(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) SetPrivate(ctx context.Context, id int64, private bool) error {
	u, ok := m.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.IsPrivate = private
	u.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) GetStats(ctx context.Context, id int64) (*model.UserStats, error) {
	s, ok := m.stats[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s, nil
}

var (
	_ repository.RelationStore = (*memStore)(nil)
	_ repository.UserStore     = (*memStore)(nil)
)
