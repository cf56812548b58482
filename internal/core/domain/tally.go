package domain

import (
	"math"

	"github.com/google/uuid"
)

type ChoiceResult struct {
	ChoiceID   uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type PollResults struct {
	PollID     uuid.UUID      `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Choices    []ChoiceResult `json:"choices"`
}

// Percentages derives per-choice percentages from already-loaded counts.
// Every percentage is 0 when the total is 0.
func Percentages(counts map[uuid.UUID]int64) map[uuid.UUID]float64 {
	var total int64
	for _, c := range counts {
		total += c
	}

	percentages := make(map[uuid.UUID]float64, len(counts))
	for id, c := range counts {
		if total == 0 {
			percentages[id] = 0
			continue
		}
		percentages[id] = round2(float64(c) / float64(total) * 100)
	}
	return percentages
}

// NewPollResults builds the tally view of a poll from its loaded counters.
func NewPollResults(poll *Poll) *PollResults {
	counts := make(map[uuid.UUID]int64, len(poll.Choices))
	for _, c := range poll.Choices {
		counts[c.ID] = c.Votes
	}
	percentages := Percentages(counts)

	results := &PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: poll.TotalVotes(),
		Choices:    make([]ChoiceResult, 0, len(poll.Choices)),
	}
	for _, c := range poll.Choices {
		results.Choices = append(results.Choices, ChoiceResult{
			ChoiceID:   c.ID,
			Text:       c.Text,
			Votes:      c.Votes,
			Percentage: percentages[c.ID],
		})
	}
	return results
}

// TallyReport compares a poll's choice counters against its vote ledger.
type TallyReport struct {
	PollID      uuid.UUID `json:"poll_id"`
	CounterSum  int64     `json:"counter_sum"`
	LedgerCount int64     `json:"ledger_count"`
}

// Consistent reports whether the counters and the ledger agree.
func (r TallyReport) Consistent() bool {
	return r.CounterSum == r.LedgerCount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
