package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Poll, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateQuestion(ctx context.Context, id uuid.UUID, question string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Question  string
	Choices   []string
	CreatedBy uuid.UUID
}

type UpdatePollInput struct {
	Question *string
	Active   *bool
}

type ListPollsInput struct {
	ActiveOnly bool
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error)
	Update(ctx context.Context, id, actor uuid.UUID, input UpdatePollInput) (*domain.Poll, error)
	SetActive(ctx context.Context, id, actor uuid.UUID, active bool) (*domain.Poll, error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
}
