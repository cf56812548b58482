package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type tallyService struct {
	pollRepo  ports.PollRepository
	tallyRepo ports.TallyRepository
}

func NewTallyService(pollRepo ports.PollRepository, tallyRepo ports.TallyRepository) ports.TallyService {
	return &tallyService{
		pollRepo:  pollRepo,
		tallyRepo: tallyRepo,
	}
}

// Results derives counts and percentages from the counters loaded with the
// poll. No additional store round-trips happen here.
func (s *tallyService) Results(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return domain.NewPollResults(poll), nil
}

func (s *tallyService) TotalVotes(ctx context.Context, pollID uuid.UUID) (int64, error) {
	return s.tallyRepo.LedgerCount(ctx, pollID)
}

func (s *tallyService) VerifyCounts(ctx context.Context, pollID uuid.UUID) (domain.TallyReport, error) {
	return s.tallyRepo.CompareCounts(ctx, pollID)
}

// VerifyAllCounts checks the counter-vs-ledger invariant for every poll, one
// goroutine per poll. Inconsistent polls are still reported; only storage
// failures abort the run.
func (s *tallyService) VerifyAllCounts(ctx context.Context) ([]domain.TallyReport, error) {
	polls, err := s.pollRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		reports []domain.TallyReport
	)
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		wg.Add(1)
		go func(pID uuid.UUID) {
			defer wg.Done()
			report, err := s.tallyRepo.CompareCounts(ctx, pID)
			if err != nil {
				errChan <- fmt.Errorf("failed to verify poll %s: %w", pID, err)
				return
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(poll.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return reports, nil
}
