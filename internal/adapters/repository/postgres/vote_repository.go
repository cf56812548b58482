package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote records the vote and bumps the choice counter in one transaction.
// The insert goes first so the (user_id, poll_id) uniqueness constraint
// arbitrates racing duplicates before any counter is touched; on any failure
// the whole transaction rolls back and no partial effect remains.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) (*domain.VoteReceipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, user_id, poll_id, choice_id, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryVote, vote.ID, vote.UserID, vote.PollID, vote.ChoiceID, vote.VotedAt)
	if err != nil {
		return nil, classifyVoteError(err)
	}

	// The counter update is joined on polls.active so a poll deactivated
	// after the service's pre-check still rejects the in-flight vote.
	queryCounter := `
		UPDATE choices
		SET votes = votes + 1
		WHERE id = $1 AND poll_id = $2
		  AND EXISTS (SELECT 1 FROM polls WHERE id = $2 AND active)
		RETURNING votes
	`
	var choiceVotes int64
	err = tx.QueryRowContext(ctx, queryCounter, vote.ChoiceID, vote.PollID).Scan(&choiceVotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.inactiveOrMissing(ctx, tx, vote.PollID)
		}
		return nil, classifyVoteError(err)
	}

	queryTotal := `SELECT COALESCE(SUM(votes), 0) FROM choices WHERE poll_id = $1`
	var totalVotes int64
	if err := tx.QueryRowContext(ctx, queryTotal, vote.PollID).Scan(&totalVotes); err != nil {
		return nil, classifyVoteError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyVoteError(err)
	}

	return &domain.VoteReceipt{
		PollID:      vote.PollID,
		ChoiceID:    vote.ChoiceID,
		ChoiceVotes: choiceVotes,
		TotalVotes:  totalVotes,
	}, nil
}

// inactiveOrMissing disambiguates a zero-row counter update: either the poll
// was deactivated after the vote insert, or the choice does not belong to
// this poll.
func (r *voteRepository) inactiveOrMissing(ctx context.Context, tx *sql.Tx, pollID uuid.UUID) error {
	var active bool
	err := tx.QueryRowContext(ctx, `SELECT active FROM polls WHERE id = $1`, pollID).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPollNotFound
		}
		return classifyVoteError(err)
	}
	if !active {
		return domain.ErrPollInactive
	}
	return domain.ErrChoiceNotFound
}

func (r *voteRepository) GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, user_id, poll_id, choice_id, voted_at
		FROM votes
		WHERE poll_id = $1 AND user_id = $2
	`
	vote := &domain.Vote{}
	err := retryRead(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, pollID, userID).Scan(
			&vote.ID, &vote.UserID, &vote.PollID, &vote.ChoiceID, &vote.VotedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := retryRead(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&exists)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}
