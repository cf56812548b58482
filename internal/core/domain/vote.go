package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	PollID   uuid.UUID `json:"poll_id"`
	ChoiceID uuid.UUID `json:"choice_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// VoteReceipt is returned to the caller after a successful cast. The counts
// reflect the state committed by the vote's own transaction.
type VoteReceipt struct {
	PollID      uuid.UUID `json:"poll_id"`
	ChoiceID    uuid.UUID `json:"choice_id"`
	ChoiceVotes int64     `json:"choice_votes"`
	TotalVotes  int64     `json:"total_votes"`
}
