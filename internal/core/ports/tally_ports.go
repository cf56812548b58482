package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
)

type TallyRepository interface {
	// LedgerCount counts the vote rows recorded for a poll.
	LedgerCount(ctx context.Context, pollID uuid.UUID) (int64, error)
	// CompareCounts reads the counter sum and the ledger count within a
	// single consistent snapshot.
	CompareCounts(ctx context.Context, pollID uuid.UUID) (domain.TallyReport, error)
}

type TallyService interface {
	Results(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
	TotalVotes(ctx context.Context, pollID uuid.UUID) (int64, error)
	VerifyCounts(ctx context.Context, pollID uuid.UUID) (domain.TallyReport, error)
	VerifyAllCounts(ctx context.Context) ([]domain.TallyReport, error)
}
