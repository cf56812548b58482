package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
)

// In-memory repositories used by the service tests. The vote fake enforces
// (user, poll) uniqueness under a lock, mirroring the storage constraint.

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *poll
	stored.Choices = append([]domain.Choice(nil), poll.Choices...)
	r.polls[poll.ID] = &stored
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	out := *poll
	out.Choices = append([]domain.Choice(nil), poll.Choices...)
	return &out, nil
}

func (r *fakePollRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var polls []*domain.Poll
	for _, poll := range r.polls {
		if activeOnly && !poll.Active {
			continue
		}
		out := *poll
		out.Choices = append([]domain.Choice(nil), poll.Choices...)
		polls = append(polls, &out)
	}
	return polls, nil
}

func (r *fakePollRepo) ListByCreator(_ context.Context, userID uuid.UUID) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var polls []*domain.Poll
	for _, poll := range r.polls {
		if poll.CreatedBy == userID {
			out := *poll
			polls = append(polls, &out)
		}
	}
	return polls, nil
}

func (r *fakePollRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Active = active
	return nil
}

func (r *fakePollRepo) UpdateQuestion(_ context.Context, id uuid.UUID, question string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Question = question
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

type voterKey struct {
	userID uuid.UUID
	pollID uuid.UUID
}

type fakeVoteRepo struct {
	mu       sync.Mutex
	votes    map[voterKey]*domain.Vote
	pollRepo *fakePollRepo
}

func newFakeVoteRepo(pollRepo *fakePollRepo) *fakeVoteRepo {
	return &fakeVoteRepo{
		votes:    make(map[voterKey]*domain.Vote),
		pollRepo: pollRepo,
	}
}

func (r *fakeVoteRepo) CastVote(_ context.Context, vote *domain.Vote) (*domain.VoteReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voterKey{userID: vote.UserID, pollID: vote.PollID}
	if _, exists := r.votes[key]; exists {
		return nil, domain.ErrDuplicateVote
	}

	r.pollRepo.mu.Lock()
	defer r.pollRepo.mu.Unlock()
	poll, ok := r.pollRepo.polls[vote.PollID]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	choice := poll.Choice(vote.ChoiceID)
	if choice == nil {
		return nil, domain.ErrChoiceNotFound
	}
	choice.Votes++
	r.votes[key] = vote

	return &domain.VoteReceipt{
		PollID:      vote.PollID,
		ChoiceID:    vote.ChoiceID,
		ChoiceVotes: choice.Votes,
		TotalVotes:  poll.TotalVotes(),
	}, nil
}

func (r *fakeVoteRepo) GetVote(_ context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, ok := r.votes[voterKey{userID: userID, pollID: pollID}]
	if !ok {
		return nil, nil
	}
	return vote, nil
}

func (r *fakeVoteRepo) HasVoted(_ context.Context, pollID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[voterKey{userID: userID, pollID: pollID}]
	return ok, nil
}

type fakeTallyRepo struct {
	pollRepo *fakePollRepo
	voteRepo *fakeVoteRepo
}

func (r *fakeTallyRepo) LedgerCount(_ context.Context, pollID uuid.UUID) (int64, error) {
	r.voteRepo.mu.Lock()
	defer r.voteRepo.mu.Unlock()
	var count int64
	for key := range r.voteRepo.votes {
		if key.pollID == pollID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTallyRepo) CompareCounts(ctx context.Context, pollID uuid.UUID) (domain.TallyReport, error) {
	poll, err := r.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return domain.TallyReport{}, err
	}
	ledger, err := r.LedgerCount(ctx, pollID)
	if err != nil {
		return domain.TallyReport{}, err
	}
	return domain.TallyReport{
		PollID:      pollID,
		CounterSum:  poll.TotalVotes(),
		LedgerCount: ledger,
	}, nil
}
