package service

import (
	"context"
	"fmt"

	"socialgraph/internal/graph"
	"socialgraph/internal/model"
	"socialgraph/internal/repository"
)

// Notifier is told about relationship events after the transaction that
// produced them has committed. Implementations are fire-and-forget: a
// notification failure must never roll back a committed change, so the
// methods return nothing.
type Notifier interface {
	NotifyFollowed(ctx context.Context, actorID, targetID int64)
	NotifyUnfollowed(ctx context.Context, actorID, targetID int64)
	NotifyFollowRequested(ctx context.Context, actorID, targetID int64)
	NotifyFollowRequestAccepted(ctx context.Context, actorID, targetID int64)
	NotifyFriendRequested(ctx context.Context, actorID, targetID int64)
	NotifyFriendRequestAccepted(ctx context.Context, actorID, targetID int64)
}

// RelationshipService is the single authority over the social graph. Every
// public method runs as: begin transaction → lock the pair → re-read the
// pair's relation state inside the transaction → plan via the graph rules
// → apply the plan through the relation store → commit → notify.
//
// Business rejections come back as the typed errors in the model package;
// anything else is a store failure and triggers rollback.
type RelationshipService struct {
	relations repository.RelationStore
	users     repository.UserStore
	notifier  Notifier // may be nil
}

// NewRelationshipService wires the service. notifier may be nil, in which
// case events are silently skipped.
func NewRelationshipService(relations repository.RelationStore, users repository.UserStore, notifier Notifier) *RelationshipService {
	return &RelationshipService{
		relations: relations,
		users:     users,
		notifier:  notifier,
	}
}

// planFunc computes a mutation plan from the pair state, inside the open
// transaction. It may do additional tx-scoped reads (e.g. the target's
// privacy flag) before planning.
type planFunc func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error)

// runPlan is the shared transaction skeleton for every mutating operation.
func (s *RelationshipService) runPlan(ctx context.Context, actorID, targetID int64, plan planFunc) error {
	tx, err := s.relations.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize concurrent operations on this pair; without this, a
	// concurrent follow and block could each pass their state checks and
	// commit a Follow row next to a Block row.
	if err := s.relations.LockPair(ctx, tx, actorID, targetID); err != nil {
		return err
	}

	state, err := s.loadPairState(ctx, tx, actorID, targetID)
	if err != nil {
		return err
	}

	mutations, err := plan(tx, state)
	if err != nil {
		return err
	}

	if err := s.apply(ctx, tx, mutations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// loadPairState snapshots every relation between actor and target. All
// reads happen inside the transaction, so the planner and the mutations it
// produces observe the same facts.
func (s *RelationshipService) loadPairState(ctx context.Context, tx repository.Tx, actorID, targetID int64) (graph.PairState, error) {
	var state graph.PairState

	follow, err := s.relations.GetFollow(ctx, tx, actorID, targetID)
	if err != nil {
		return state, err
	}
	reverseFollow, err := s.relations.GetFollow(ctx, tx, targetID, actorID)
	if err != nil {
		return state, err
	}
	followReq, err := s.relations.GetFollowRequest(ctx, tx, actorID, targetID)
	if err != nil {
		return state, err
	}
	reverseFollowReq, err := s.relations.GetFollowRequest(ctx, tx, targetID, actorID)
	if err != nil {
		return state, err
	}
	friend, err := s.relations.GetFriend(ctx, tx, actorID, targetID)
	if err != nil {
		return state, err
	}
	friendReq, err := s.relations.GetFriendRequest(ctx, tx, actorID, targetID)
	if err != nil {
		return state, err
	}
	reverseFriendReq, err := s.relations.GetFriendRequest(ctx, tx, targetID, actorID)
	if err != nil {
		return state, err
	}
	block, err := s.relations.GetBlock(ctx, tx, actorID, targetID)
	if err != nil {
		return state, err
	}
	reverseBlock, err := s.relations.GetBlock(ctx, tx, targetID, actorID)
	if err != nil {
		return state, err
	}

	state.Follow = follow != nil
	state.ReverseFollow = reverseFollow != nil
	state.FollowRequest = followReq != nil
	state.ReverseFollowRequest = reverseFollowReq != nil
	state.Friend = friend != nil
	state.FriendRequest = friendReq != nil
	state.ReverseFriendRequest = reverseFriendReq != nil
	state.Block = block != nil
	state.ReverseBlock = reverseBlock != nil
	return state, nil
}

// apply executes a mutation plan in order through the relation store.
func (s *RelationshipService) apply(ctx context.Context, tx repository.Tx, mutations []graph.Mutation) error {
	for _, m := range mutations {
		var err error
		switch m.Op {
		case graph.OpCreateFollow:
			err = s.relations.CreateFollow(ctx, tx, m.From, m.To)
		case graph.OpDeleteFollow:
			err = s.relations.DeleteFollow(ctx, tx, m.From, m.To)
		case graph.OpCreateFollowRequest:
			err = s.relations.CreateFollowRequest(ctx, tx, m.From, m.To)
		case graph.OpDeleteFollowRequest:
			err = s.relations.DeleteFollowRequest(ctx, tx, m.From, m.To)
		case graph.OpCreateFriend:
			err = s.relations.CreateFriend(ctx, tx, m.From, m.To)
		case graph.OpDeleteFriend:
			err = s.relations.DeleteFriend(ctx, tx, m.From, m.To)
		case graph.OpCreateFriendRequest:
			err = s.relations.CreateFriendRequest(ctx, tx, m.From, m.To)
		case graph.OpDeleteFriendRequest:
			err = s.relations.DeleteFriendRequest(ctx, tx, m.From, m.To)
		case graph.OpCreateBlock:
			err = s.relations.CreateBlock(ctx, tx, m.From, m.To)
		case graph.OpDeleteBlock:
			err = s.relations.DeleteBlock(ctx, tx, m.From, m.To)
		case graph.OpCleanupPair:
			err = s.relations.CleanupPair(ctx, tx, m.From, m.To)
		default:
			err = fmt.Errorf("unknown mutation op %d", m.Op)
		}
		if err != nil {
			return fmt.Errorf("apply %s: %w", m.Op, err)
		}
	}
	return nil
}

// Follow makes actor follow target, or requests to when the target account
// is private.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return model.ErrCannotFollowSelf
	}

	var outcome graph.Outcome
	err := s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		target, err := s.users.GetByIDTx(ctx, tx, targetID)
		if err != nil {
			return nil, err
		}
		plan, out, err := graph.PlanFollow(actorID, targetID, target.IsPrivate, state)
		if err != nil {
			return nil, err
		}
		outcome = out
		return plan, nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		switch outcome {
		case graph.OutcomeFollowed:
			s.notifier.NotifyFollowed(ctx, actorID, targetID)
		case graph.OutcomeFollowRequested:
			s.notifier.NotifyFollowRequested(ctx, actorID, targetID)
		}
	}
	return nil
}

// Unfollow removes actor's follow of target. Rejected while the pair is
// friends: the friendship must be dissolved first.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID int64) error {
	err := s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanUnfollow(actorID, targetID, state)
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyUnfollowed(ctx, actorID, targetID)
	}
	return nil
}

// RemoveFollower removes target from actor's followers, dissolving a
// friendship if one exists.
func (s *RelationshipService) RemoveFollower(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanRemoveFollower(actorID, targetID, state)
	})
}

// AcceptFollowRequest accepts the pending follow request from target.
func (s *RelationshipService) AcceptFollowRequest(ctx context.Context, actorID, targetID int64) error {
	err := s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanAcceptFollowRequest(actorID, targetID, state)
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyFollowRequestAccepted(ctx, actorID, targetID)
	}
	return nil
}

// DeclineFollowRequest declines the pending follow request from target.
func (s *RelationshipService) DeclineFollowRequest(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanDeclineFollowRequest(actorID, targetID, state)
	})
}

// CancelFollowRequest withdraws actor's own pending follow request.
func (s *RelationshipService) CancelFollowRequest(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanCancelFollowRequest(actorID, targetID, state)
	})
}

// SendFriendRequest asks target to be friends. When target had already
// asked the other way, the request collision completes the friendship
// immediately.
func (s *RelationshipService) SendFriendRequest(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return model.ErrCannotFriendSelf
	}

	var outcome graph.Outcome
	err := s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		target, err := s.users.GetByIDTx(ctx, tx, targetID)
		if err != nil {
			return nil, err
		}
		plan, out, err := graph.PlanFriendRequest(actorID, targetID, target.IsPrivate, state)
		if err != nil {
			return nil, err
		}
		outcome = out
		return plan, nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		switch outcome {
		case graph.OutcomeFriendRequested:
			s.notifier.NotifyFriendRequested(ctx, actorID, targetID)
		case graph.OutcomeFriendCompleted:
			s.notifier.NotifyFriendRequestAccepted(ctx, actorID, targetID)
		}
	}
	return nil
}

// AcceptFriendRequest accepts the pending friend request from target and
// establishes mutual following.
func (s *RelationshipService) AcceptFriendRequest(ctx context.Context, actorID, targetID int64) error {
	err := s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanAcceptFriendRequest(actorID, targetID, state)
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyFriendRequestAccepted(ctx, actorID, targetID)
	}
	return nil
}

// DeclineFriendRequest declines the pending friend request from target.
func (s *RelationshipService) DeclineFriendRequest(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanDeclineFriendRequest(actorID, targetID, state)
	})
}

// CancelFriendRequest withdraws actor's own pending friend request.
func (s *RelationshipService) CancelFriendRequest(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanCancelFriendRequest(actorID, targetID, state)
	})
}

// Unfriend dissolves the friendship. Follow edges stay.
func (s *RelationshipService) Unfriend(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanUnfriend(actorID, targetID, state)
	})
}

// Block tears down every relation between the pair and records the block.
func (s *RelationshipService) Block(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return model.ErrCannotBlockSelf
	}
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		if _, err := s.users.GetByIDTx(ctx, tx, targetID); err != nil {
			return nil, err
		}
		return graph.PlanBlock(actorID, targetID, state)
	})
}

// Unblock removes actor's block of target. No relations are restored.
func (s *RelationshipService) Unblock(ctx context.Context, actorID, targetID int64) error {
	return s.runPlan(ctx, actorID, targetID, func(tx repository.Tx, state graph.PairState) ([]graph.Mutation, error) {
		return graph.PlanUnblock(actorID, targetID, state)
	})
}
