package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ballotbox/api/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	serializationFail   = "40001"
	deadlockDetected    = "40P01"
)

// Constraint names from the votes table; see migrations/000001_init.up.sql.
const (
	voterConstraint = "votes_voter_fkey"
	pollConstraint  = "votes_poll_fkey"
)

// classifyVoteError maps postgres errors raised inside the cast-vote
// transaction to domain errors. The (user_id, poll_id) unique index fires on
// a duplicate vote. Three foreign keys can fire on the insert, so the
// constraint name decides which entity went missing: the voter (a valid token
// for a since-deleted user), the poll, or a choice that does not belong to
// the poll.
func classifyVoteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case uniqueViolation:
		return domain.ErrDuplicateVote
	case foreignKeyViolation:
		switch pqErr.Constraint {
		case voterConstraint:
			return domain.ErrUnauthorized
		case pollConstraint:
			return domain.ErrPollNotFound
		default:
			return domain.ErrChoiceNotFound
		}
	}
	if transient(pqErr.Code) {
		return fmt.Errorf("%w: %s", domain.ErrTransient, pqErr.Code)
	}
	return err
}

// transient reports whether a sqlstate code names a failure worth retrying:
// serialization conflicts, deadlocks and connection-level (class 08) errors.
func transient(code pq.ErrorCode) bool {
	if code == serializationFail || code == deadlockDetected {
		return true
	}
	return len(code) >= 2 && code[:2] == "08"
}

// isTransient reports whether err carries a retryable sqlstate.
func isTransient(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && transient(pqErr.Code)
}
