package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
)

// VoteRepository records votes. CastVote must insert the vote row and
// increment the choice counter in a single transaction; a concurrent cast for
// the same (user, poll) pair must fail with domain.ErrDuplicateVote through
// the storage uniqueness constraint, never through an application pre-check
// alone.
type VoteRepository interface {
	CastVote(ctx context.Context, vote *domain.Vote) (*domain.VoteReceipt, error)
	GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
}

type CastVoteInput struct {
	PollID   uuid.UUID
	ChoiceID uuid.UUID
	UserID   uuid.UUID
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (*domain.VoteReceipt, error)
	GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
}
