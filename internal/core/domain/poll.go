package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTextLength bounds both poll questions and choice texts.
const MaxTextLength = 200

type Poll struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	CreatedBy uuid.UUID `json:"created_by"`
	PubDate   time.Time `json:"pub_date"`
	Active    bool      `json:"active"`
	Choices   []Choice  `json:"choices"`
}

type Choice struct {
	ID     uuid.UUID `json:"id"`
	PollID uuid.UUID `json:"poll_id"`
	Text   string    `json:"text"`
	Votes  int64     `json:"votes"`
}

// Choice returns the poll's choice with the given id, or nil.
func (p *Poll) Choice(choiceID uuid.UUID) *Choice {
	for i := range p.Choices {
		if p.Choices[i].ID == choiceID {
			return &p.Choices[i]
		}
	}
	return nil
}

// TotalVotes sums the running counters of the loaded choices.
func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, c := range p.Choices {
		total += c.Votes
	}
	return total
}
