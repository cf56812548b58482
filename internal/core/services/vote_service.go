package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// CastVote checks the preconditions in order (poll exists, choice belongs to
// the poll, poll is active, no prior vote) and then hands off to the
// repository, whose transaction is the actual duplicate-vote arbiter. The
// HasVoted pre-check only produces a friendlier error for the common case;
// two racing casts are resolved by the (user, poll) uniqueness constraint.
func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*domain.VoteReceipt, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	if poll.Choice(input.ChoiceID) == nil {
		return nil, domain.ErrChoiceNotFound
	}

	if !poll.Active {
		return nil, domain.ErrPollInactive
	}

	hasVoted, err := s.voteRepo.HasVoted(ctx, input.PollID, input.UserID)
	if err != nil {
		return nil, err
	}
	if hasVoted {
		return nil, domain.ErrDuplicateVote
	}

	vote := &domain.Vote{
		ID:       uuid.New(),
		UserID:   input.UserID,
		PollID:   input.PollID,
		ChoiceID: input.ChoiceID,
		VotedAt:  time.Now(),
	}

	return s.voteRepo.CastVote(ctx, vote)
}

func (s *voteService) GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	return s.voteRepo.GetVote(ctx, pollID, userID)
}

func (s *voteService) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	return s.voteRepo.HasVoted(ctx, pollID, userID)
}
