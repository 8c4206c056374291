package service

import (
	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/model"
)

// scoreSubmission grades one set of answers against a test's snapshot and the
// ground-truth answer key.
//
// An answer whose question id matches no snapshot entry, or whose ground
// truth is missing from the key, is skipped entirely. A matched answer earns
// the entry's marks on an exact string match and loses its negative marks
// otherwise. Unanswered questions neither earn nor lose. The score is plain
// arithmetic with no floor: heavy negative marking can push it below zero.
func scoreSubmission(test *model.Test, answerKey map[uuid.UUID]string, answers []model.AnswerSubmission) model.ScoreResult {
	entries := make(map[uuid.UUID]model.TestQuestion, len(test.Questions))
	for _, q := range test.Questions {
		entries[q.QuestionID] = q
	}

	result := model.ScoreResult{
		Total:    test.TotalQuestions,
		MaxMarks: test.TotalMarks,
	}

	for _, answer := range answers {
		if answer.SelectedOption == "" {
			// Clients may submit the full question list with blanks.
			continue
		}
		entry, ok := entries[answer.QuestionID]
		if !ok {
			continue
		}
		correct, ok := answerKey[answer.QuestionID]
		if !ok {
			continue
		}

		if answer.SelectedOption == correct {
			result.Score += entry.Marks
			result.Correct++
		} else {
			result.Score -= entry.NegativeMarks
			result.Wrong++
		}
	}

	return result
}
