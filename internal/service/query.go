package service

import (
	"context"
	"log"

	"socialgraph/internal/model"
	"socialgraph/internal/repository"
)

// Page size bounds for every listing endpoint.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// QueryService serves the listing side of the graph: followers, following,
// friends and pending requests, each annotated with the viewer's own
// relation to the listed user.
type QueryService struct {
	relations repository.RelationStore
}

func NewQueryService(relations repository.RelationStore) *QueryService {
	return &QueryService{relations: relations}
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

type listFunc func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error)

// list is the shared decode-fetch-annotate-encode skeleton.
func (s *QueryService) list(ctx context.Context, viewerID *int64, cursorToken string, limit int, fetch listFunc) (*model.RelationListResponse, error) {
	cursor, err := model.DecodeCursor(cursorToken)
	if err != nil {
		return nil, err
	}

	users, next, err := fetch(ctx, cursor, clampPageSize(limit))
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.annotate(ctx, *viewerID, users)
	}

	resp := &model.RelationListResponse{
		Users:   users,
		HasMore: next != nil,
	}
	if next != nil {
		token := next.Encode()
		resp.NextCursor = &token
	}
	return resp, nil
}

// annotate fills in each row's follow/friend status relative to the
// viewer with two batch queries. On failure the listing still goes out,
// just without statuses.
func (s *QueryService) annotate(ctx context.Context, viewerID int64, users []model.UserSummary) []model.UserSummary {
	if len(users) == 0 {
		return users
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	followStatuses, err := s.relations.FollowStatuses(ctx, viewerID, ids)
	if err != nil {
		log.Printf("[QueryService] follow status annotation failed: viewer=%d err=%v", viewerID, err)
		return users
	}
	friendStatuses, err := s.relations.FriendStatuses(ctx, viewerID, ids)
	if err != nil {
		log.Printf("[QueryService] friend status annotation failed: viewer=%d err=%v", viewerID, err)
		return users
	}

	for i := range users {
		users[i].FollowStatus = followStatuses[users[i].ID]
		users[i].FriendStatus = friendStatuses[users[i].ID]
	}
	return users
}

// ListFollowers lists the users following userID.
func (s *QueryService) ListFollowers(ctx context.Context, userID int64, viewerID *int64, cursorToken string, limit int) (*model.RelationListResponse, error) {
	return s.list(ctx, viewerID, cursorToken, limit, func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
		return s.relations.ListFollowers(ctx, userID, viewerID, cursor, limit)
	})
}

// ListFollowing lists the users userID follows.
func (s *QueryService) ListFollowing(ctx context.Context, userID int64, viewerID *int64, cursorToken string, limit int) (*model.RelationListResponse, error) {
	return s.list(ctx, viewerID, cursorToken, limit, func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
		return s.relations.ListFollowing(ctx, userID, viewerID, cursor, limit)
	})
}

// ListFriends lists userID's friends.
func (s *QueryService) ListFriends(ctx context.Context, userID int64, viewerID *int64, cursorToken string, limit int) (*model.RelationListResponse, error) {
	return s.list(ctx, viewerID, cursorToken, limit, func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
		return s.relations.ListFriends(ctx, userID, viewerID, cursor, limit)
	})
}

// ListFollowRequests lists the senders of follow requests pending on
// userID. Only the user themselves can see these, so userID is also the
// viewer.
func (s *QueryService) ListFollowRequests(ctx context.Context, userID int64, cursorToken string, limit int) (*model.RelationListResponse, error) {
	viewer := userID
	return s.list(ctx, &viewer, cursorToken, limit, func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
		return s.relations.ListFollowRequests(ctx, userID, cursor, limit)
	})
}

// ListFriendRequests lists the senders of friend requests pending on
// userID.
func (s *QueryService) ListFriendRequests(ctx context.Context, userID int64, cursorToken string, limit int) (*model.RelationListResponse, error) {
	viewer := userID
	return s.list(ctx, &viewer, cursorToken, limit, func(ctx context.Context, cursor *model.Cursor, limit int) ([]model.UserSummary, *model.Cursor, error) {
		return s.relations.ListFriendRequests(ctx, userID, cursor, limit)
	})
}
