package service

import (
	"errors"
	"fmt"

	"github.com/upgradist/eduquest-backend/internal/model"
)

// Domain errors shared across services.
var (
	ErrTestNotFound     = errors.New("test not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrEmailTaken       = errors.New("email already registered")
)

// InsufficientQuestionsError aborts test assembly when a difficulty tier has
// fewer active questions than requested. Nothing is persisted.
type InsufficientQuestionsError struct {
	Tier      model.Difficulty
	Requested int
	Available int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("not enough %s questions available: requested %d, available %d",
		e.Tier, e.Requested, e.Available)
}
