// Package graph holds the consistency rules of the relationship engine as
// pure decision functions. Each planner takes a snapshot of every relation
// between an actor and a target and returns the ordered list of store
// mutations that realizes the requested action while preserving the graph
// invariants, or a typed business error from the operation's closed set.
//
// Planners never touch the store. The service layer loads the snapshot
// inside a transaction, runs the planner, and applies the plan inside the
// same transaction, so a plan is always computed against the same facts it
// mutates.
package graph

// PairState is the presence of every relation between an actor and a
// target, oriented from the actor's point of view. "Reverse" fields are
// the target→actor direction.
type PairState struct {
	Follow        bool // actor follows target
	ReverseFollow bool // target follows actor

	FollowRequest        bool // actor → target pending
	ReverseFollowRequest bool // target → actor pending

	Friend bool // undirected

	FriendRequest        bool // actor → target pending
	ReverseFriendRequest bool // target → actor pending

	Block        bool // actor has blocked target
	ReverseBlock bool // target has blocked actor
}

// Op identifies a single relation store mutation.
type Op int

const (
	OpCreateFollow Op = iota
	OpDeleteFollow
	OpCreateFollowRequest
	OpDeleteFollowRequest
	OpCreateFriend
	OpDeleteFriend
	OpCreateFriendRequest
	OpDeleteFriendRequest
	OpCreateBlock
	OpDeleteBlock
	// OpCleanupPair removes every Follow/FollowRequest/Friend/FriendRequest
	// row between the pair in both directions, with counter correction.
	// Used exclusively by block.
	OpCleanupPair
)

func (o Op) String() string {
	switch o {
	case OpCreateFollow:
		return "create_follow"
	case OpDeleteFollow:
		return "delete_follow"
	case OpCreateFollowRequest:
		return "create_follow_request"
	case OpDeleteFollowRequest:
		return "delete_follow_request"
	case OpCreateFriend:
		return "create_friend"
	case OpDeleteFriend:
		return "delete_friend"
	case OpCreateFriendRequest:
		return "create_friend_request"
	case OpDeleteFriendRequest:
		return "delete_friend_request"
	case OpCreateBlock:
		return "create_block"
	case OpDeleteBlock:
		return "delete_block"
	case OpCleanupPair:
		return "cleanup_pair"
	default:
		return "unknown"
	}
}

// Mutation is one store call: Op applied to the ordered pair From→To.
// For undirected ops (friend create/delete, cleanup) the store normalizes
// the pair itself.
type Mutation struct {
	Op   Op
	From int64
	To   int64
}

// Outcome tells the service which event a successful plan corresponds to,
// so it can notify the right thing after commit.
type Outcome int

const (
	// OutcomeNone means no notification-worthy event.
	OutcomeNone Outcome = iota
	// OutcomeFollowed means a Follow edge was created directly.
	OutcomeFollowed
	// OutcomeFollowRequested means a FollowRequest was created.
	OutcomeFollowRequested
	// OutcomeFriendRequested means a FriendRequest was created.
	OutcomeFriendRequested
	// OutcomeFriendCompleted means a friendship was established.
	OutcomeFriendCompleted
)
