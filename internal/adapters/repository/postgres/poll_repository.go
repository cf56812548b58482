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

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

// Save persists the poll and its choices as one transaction so a partially
// created poll is never observable.
func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, question, created_by, pub_date, active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.Question, poll.CreatedBy, poll.PubDate, poll.Active)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, poll_id, text)
		VALUES ($1, $2, $3)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, choice := range poll.Choices {
		_, err = stmt.ExecContext(ctx, choice.ID, choice.PollID, choice.Text)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, question, created_by, pub_date, active
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := retryRead(ctx, func() error {
		return r.db.QueryRowContext(ctx, queryPoll, id).Scan(
			&poll.ID, &poll.Question, &poll.CreatedBy, &poll.PubDate, &poll.Active,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	choices, err := r.fetchChoices(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Choices = choices

	return &poll, nil
}

func (r *pollRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, created_by, pub_date, active
		FROM polls
		WHERE active = true OR NOT $1
		ORDER BY pub_date DESC
	`
	var polls []*domain.Poll
	err := retryRead(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query, activeOnly)
		if err != nil {
			return fmt.Errorf("failed to list polls: %w", err)
		}
		defer rows.Close()

		polls, err = r.scanPolls(ctx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, created_by, pub_date, active
		FROM polls
		WHERE created_by = $1
		ORDER BY pub_date DESC
	`
	var polls []*domain.Poll
	err := retryRead(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("failed to list polls by creator: %w", err)
		}
		defer rows.Close()

		polls, err = r.scanPolls(ctx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE polls SET active = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set poll active flag: %w", err)
	}
	return requireRow(res)
}

func (r *pollRepository) UpdateQuestion(ctx context.Context, id uuid.UUID, question string) error {
	query := `UPDATE polls SET question = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, question)
	if err != nil {
		return fmt.Errorf("failed to update poll question: %w", err)
	}
	return requireRow(res)
}

// Delete removes the poll; choices and votes go with it through the cascade.
func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM polls WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return requireRow(res)
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatedBy, &poll.PubDate, &poll.Active); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		choices, err := r.fetchChoices(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Choices = choices

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) fetchChoices(ctx context.Context, pollID uuid.UUID) ([]domain.Choice, error) {
	queryChoices := `
		SELECT id, poll_id, text, votes
		FROM choices
		WHERE poll_id = $1
		ORDER BY created_at, id
	`
	var choices []domain.Choice
	err := retryRead(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, queryChoices, pollID)
		if err != nil {
			return fmt.Errorf("failed to get poll choices: %w", err)
		}
		defer rows.Close()

		choices = choices[:0]
		for rows.Next() {
			var choice domain.Choice
			if err := rows.Scan(&choice.ID, &choice.PollID, &choice.Text, &choice.Votes); err != nil {
				return fmt.Errorf("failed to scan choice: %w", err)
			}
			choices = append(choices, choice)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating choices: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return choices, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}
