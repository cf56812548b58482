package domain

import "errors"

var (
	ErrValidation     = errors.New("invalid input")
	ErrPollNotFound   = errors.New("poll not found")
	ErrChoiceNotFound = errors.New("choice not found for this poll")
	ErrPollInactive   = errors.New("poll is no longer active")
	ErrDuplicateVote  = errors.New("user has already voted on this poll")
	ErrUnauthorized   = errors.New("operation not allowed for this user")
	ErrTransient      = errors.New("temporary storage failure")
	ErrInternal       = errors.New("internal server error")
)
