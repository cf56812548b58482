package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type pollService struct {
	repo ports.PollRepository
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(question) > domain.MaxTextLength {
		return nil, fmt.Errorf("%w: question exceeds %d characters", domain.ErrValidation, domain.MaxTextLength)
	}

	var texts []string
	for _, text := range input.Choices {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > domain.MaxTextLength {
			return nil, fmt.Errorf("%w: choice text exceeds %d characters", domain.ErrValidation, domain.MaxTextLength)
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: at least one choice is required", domain.ErrValidation)
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:        pollID,
		Question:  question,
		CreatedBy: input.CreatedBy,
		PubDate:   now,
		Active:    true,
	}
	for _, text := range texts {
		poll.Choices = append(poll.Choices, domain.Choice{
			ID:     uuid.New(),
			PollID: pollID,
			Text:   text,
		})
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	return s.repo.List(ctx, input.ActiveOnly)
}

func (s *pollService) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error) {
	return s.repo.ListByCreator(ctx, userID)
}

func (s *pollService) Update(ctx context.Context, id, actor uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	poll, err := s.ownedPoll(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if input.Question != nil {
		question := strings.TrimSpace(*input.Question)
		if question == "" || utf8.RuneCountInString(question) > domain.MaxTextLength {
			return nil, fmt.Errorf("%w: question must be 1 to %d characters", domain.ErrValidation, domain.MaxTextLength)
		}
		if err := s.repo.UpdateQuestion(ctx, poll.ID, question); err != nil {
			return nil, err
		}
	}

	if input.Active != nil {
		if err := s.repo.SetActive(ctx, poll.ID, *input.Active); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

func (s *pollService) SetActive(ctx context.Context, id, actor uuid.UUID, active bool) (*domain.Poll, error) {
	return s.Update(ctx, id, actor, ports.UpdatePollInput{Active: &active})
}

func (s *pollService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	poll, err := s.ownedPoll(ctx, id, actor)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, poll.ID)
}

// ownedPoll loads a poll and checks that actor is its creator.
func (s *pollService) ownedPoll(ctx context.Context, id, actor uuid.UUID) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if poll.CreatedBy != actor {
		return nil, domain.ErrUnauthorized
	}
	return poll, nil
}
