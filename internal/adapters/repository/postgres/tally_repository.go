package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) LedgerCount(ctx context.Context, pollID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM votes WHERE poll_id = $1`
	var count int64
	err := retryRead(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, pollID).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// CompareCounts reads the counter sum and the ledger count in a single
// statement so both come from the same snapshot; a concurrent cast-vote
// transaction is seen either fully or not at all.
func (r *tallyRepository) CompareCounts(ctx context.Context, pollID uuid.UUID) (domain.TallyReport, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(votes), 0) FROM choices WHERE poll_id = $1),
			(SELECT COUNT(*) FROM votes WHERE poll_id = $1)
	`
	report := domain.TallyReport{PollID: pollID}
	err := retryRead(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, pollID).Scan(&report.CounterSum, &report.LedgerCount)
	})
	if err != nil {
		return domain.TallyReport{}, fmt.Errorf("failed to compare counts for poll %s: %w", pollID, err)
	}
	return report, nil
}
