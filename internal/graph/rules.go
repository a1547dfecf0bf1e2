package graph

import "socialgraph/internal/model"

// PlanFollow decides how actor starts following target. Public targets get
// a Follow edge immediately; private targets get a FollowRequest.
func PlanFollow(actor, target int64, targetPrivate bool, s PairState) ([]Mutation, Outcome, error) {
	if actor == target {
		return nil, OutcomeNone, model.ErrCannotFollowSelf
	}
	if s.Block || s.ReverseBlock {
		// Blocked pairs behave as if the target does not exist.
		return nil, OutcomeNone, model.ErrUserNotFound
	}
	if s.Follow {
		return nil, OutcomeNone, model.ErrAlreadyFollowing
	}
	if s.FollowRequest {
		return nil, OutcomeNone, model.ErrRequestAlreadySent
	}

	if targetPrivate {
		return []Mutation{{OpCreateFollowRequest, actor, target}}, OutcomeFollowRequested, nil
	}
	return []Mutation{{OpCreateFollow, actor, target}}, OutcomeFollowed, nil
}

// PlanUnfollow removes actor's follow of target. While a friendship exists
// the follow edge is load-bearing (friendship implies mutual following),
// so unfollow must go through unfriend first.
func PlanUnfollow(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.Follow {
		return nil, model.ErrNotFollowing
	}
	if s.Friend {
		return nil, model.ErrMustUnfriendFirst
	}
	return []Mutation{{OpDeleteFollow, actor, target}}, nil
}

// PlanRemoveFollower lets actor remove target from their follower list.
// If the pair is friends the friendship goes too, since a one-directional
// follow cannot coexist with a Friend row.
func PlanRemoveFollower(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.ReverseFollow {
		return nil, model.ErrNotFollowing
	}

	var plan []Mutation
	if s.Friend {
		plan = append(plan, Mutation{OpDeleteFriend, actor, target})
		// A Friend row excludes FriendRequests between the pair, but clear
		// any residual request anyway so the pair ends fully detached.
		if s.FriendRequest {
			plan = append(plan, Mutation{OpDeleteFriendRequest, actor, target})
		}
		if s.ReverseFriendRequest {
			plan = append(plan, Mutation{OpDeleteFriendRequest, target, actor})
		}
	}
	plan = append(plan, Mutation{OpDeleteFollow, target, actor})
	return plan, nil
}

// PlanAcceptFollowRequest turns the pending target→actor request into a
// Follow edge.
func PlanAcceptFollowRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.ReverseFollowRequest {
		return nil, model.ErrRequestNotFound
	}
	return []Mutation{
		{OpDeleteFollowRequest, target, actor},
		{OpCreateFollow, target, actor},
	}, nil
}

// PlanDeclineFollowRequest drops the pending target→actor request.
func PlanDeclineFollowRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.ReverseFollowRequest {
		return nil, model.ErrRequestNotFound
	}
	return []Mutation{{OpDeleteFollowRequest, target, actor}}, nil
}

// PlanCancelFollowRequest drops the actor's own pending actor→target
// request.
func PlanCancelFollowRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.FollowRequest {
		return nil, model.ErrRequestNotFound
	}
	return []Mutation{{OpDeleteFollowRequest, actor, target}}, nil
}

// PlanFriendRequest decides how actor asks target to be friends.
//
// If the target had already sent a friend request the other way, the two
// requests collide and this call completes the friendship instead: the
// incoming request is consumed, the Friend row is created, and any missing
// mutual Follow edges are backfilled (stale FollowRequests in a direction
// are deleted before that direction's Follow is created).
//
// Otherwise an outgoing FriendRequest is created and the pair is nudged
// toward the pre-friendship state: a pending target→actor follow request
// converts into a Follow (the friend request shows the relationship is no
// longer one-directional-pending), and if the actor does not yet follow
// the target, the ordinary follow rule applies with the target's privacy.
func PlanFriendRequest(actor, target int64, targetPrivate bool, s PairState) ([]Mutation, Outcome, error) {
	if actor == target {
		return nil, OutcomeNone, model.ErrCannotFriendSelf
	}
	if s.Block || s.ReverseBlock {
		return nil, OutcomeNone, model.ErrUserNotFound
	}
	if s.Friend {
		return nil, OutcomeNone, model.ErrAlreadyFriends
	}
	if s.FriendRequest {
		return nil, OutcomeNone, model.ErrRequestAlreadySent
	}

	if s.ReverseFriendRequest {
		plan := []Mutation{
			{OpDeleteFriendRequest, target, actor},
			{OpCreateFriend, actor, target},
		}
		plan = append(plan, backfillMutualFollow(actor, target, s)...)
		return plan, OutcomeFriendCompleted, nil
	}

	plan := []Mutation{{OpCreateFriendRequest, actor, target}}
	if s.ReverseFollowRequest {
		plan = append(plan,
			Mutation{OpDeleteFollowRequest, target, actor},
			Mutation{OpCreateFollow, target, actor},
		)
	}
	if !s.Follow && !s.FollowRequest {
		if targetPrivate {
			plan = append(plan, Mutation{OpCreateFollowRequest, actor, target})
		} else {
			plan = append(plan, Mutation{OpCreateFollow, actor, target})
		}
	}
	return plan, OutcomeFriendRequested, nil
}

// PlanAcceptFriendRequest consumes the pending target→actor friend request
// and establishes the friendship with mutual following.
func PlanAcceptFriendRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.ReverseFriendRequest {
		return nil, model.ErrRequestNotFound
	}
	plan := []Mutation{
		{OpDeleteFriendRequest, target, actor},
		{OpCreateFriend, actor, target},
	}
	plan = append(plan, backfillMutualFollow(actor, target, s)...)
	return plan, nil
}

// PlanDeclineFriendRequest drops the pending target→actor friend request.
// Follow relations are left untouched.
func PlanDeclineFriendRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.ReverseFriendRequest {
		return nil, model.ErrRequestNotFound
	}
	return []Mutation{{OpDeleteFriendRequest, target, actor}}, nil
}

// PlanCancelFriendRequest drops the actor's own pending actor→target
// friend request. Follow relations are left untouched.
func PlanCancelFriendRequest(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.FriendRequest {
		return nil, model.ErrRequestNotFound
	}
	return []Mutation{{OpDeleteFriendRequest, actor, target}}, nil
}

// PlanUnfriend removes the friendship. Follows are not removed:
// unfriending degrades to "still following each other".
func PlanUnfriend(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.Friend {
		return nil, model.ErrFriendNotFound
	}
	return []Mutation{{OpDeleteFriend, actor, target}}, nil
}

// PlanBlock tears down every relation between the pair in both directions
// and creates the Block edge.
func PlanBlock(actor, target int64, s PairState) ([]Mutation, error) {
	if actor == target {
		return nil, model.ErrCannotBlockSelf
	}
	if s.Block {
		return nil, model.ErrAlreadyBlocked
	}
	return []Mutation{
		{OpCleanupPair, actor, target},
		{OpCreateBlock, actor, target},
	}, nil
}

// PlanUnblock removes the actor's block. No relations are restored.
func PlanUnblock(actor, target int64, s PairState) ([]Mutation, error) {
	if !s.Block {
		return nil, model.ErrBlockNotFound
	}
	return []Mutation{{OpDeleteBlock, actor, target}}, nil
}

// backfillMutualFollow returns the mutations that make Follow(actor→target)
// and Follow(target→actor) both exist, deleting stale FollowRequests in a
// direction before creating that direction's Follow. Used by every
// friend-establishing path to realize "friendship implies mutual follow".
func backfillMutualFollow(actor, target int64, s PairState) []Mutation {
	var plan []Mutation
	if s.FollowRequest {
		plan = append(plan, Mutation{OpDeleteFollowRequest, actor, target})
	}
	if !s.Follow {
		plan = append(plan, Mutation{OpCreateFollow, actor, target})
	}
	if s.ReverseFollowRequest {
		plan = append(plan, Mutation{OpDeleteFollowRequest, target, actor})
	}
	if !s.ReverseFollow {
		plan = append(plan, Mutation{OpCreateFollow, target, actor})
	}
	return plan
}
