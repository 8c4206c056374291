package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/model"
)

func snapshotTest(questions []model.TestQuestion, totalMarks float64) *model.Test {
	return &model.Test{
		ID:             uuid.New(),
		TotalQuestions: len(questions),
		TotalMarks:     totalMarks,
		Questions:      questions,
	}
}

func TestScoreSubmission(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	q3 := uuid.New()

	questions := []model.TestQuestion{
		{QuestionID: q1, Difficulty: model.DifficultyEasy, Marks: 1, NegativeMarks: 0.25},
		{QuestionID: q2, Difficulty: model.DifficultyMedium, Marks: 2, NegativeMarks: 0.5},
		{QuestionID: q3, Difficulty: model.DifficultyHard, Marks: 4, NegativeMarks: 1},
	}
	key := map[uuid.UUID]string{q1: "A", q2: "B", q3: "C"}

	tests := []struct {
		name        string
		answers     []model.AnswerSubmission
		wantScore   float64
		wantCorrect int
		wantWrong   int
	}{
		{
			name: "all correct",
			answers: []model.AnswerSubmission{
				{QuestionID: q1, SelectedOption: "A"},
				{QuestionID: q2, SelectedOption: "B"},
				{QuestionID: q3, SelectedOption: "C"},
			},
			wantScore:   7,
			wantCorrect: 3,
		},
		{
			name: "mixed with penalties",
			answers: []model.AnswerSubmission{
				{QuestionID: q1, SelectedOption: "A"},
				{QuestionID: q2, SelectedOption: "X"},
				{QuestionID: q3, SelectedOption: "C"},
			},
			wantScore:   4.5,
			wantCorrect: 2,
			wantWrong:   1,
		},
		{
			name: "unanswered questions are skipped",
			answers: []model.AnswerSubmission{
				{QuestionID: q1, SelectedOption: "A"},
				{QuestionID: q2, SelectedOption: ""},
			},
			wantScore:   1,
			wantCorrect: 1,
		},
		{
			name: "unknown question ids are ignored",
			answers: []model.AnswerSubmission{
				{QuestionID: uuid.New(), SelectedOption: "A"},
				{QuestionID: q3, SelectedOption: "C"},
			},
			wantScore:   4,
			wantCorrect: 1,
		},
		{
			name: "all wrong can go negative",
			answers: []model.AnswerSubmission{
				{QuestionID: q1, SelectedOption: "Z"},
				{QuestionID: q2, SelectedOption: "Z"},
				{QuestionID: q3, SelectedOption: "Z"},
			},
			wantScore: -1.75,
			wantWrong: 3,
		},
		{
			name:      "empty submission",
			answers:   nil,
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test := snapshotTest(questions, 7)
			got := scoreSubmission(test, key, tt.answers)

			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Correct != tt.wantCorrect {
				t.Errorf("Correct = %d, want %d", got.Correct, tt.wantCorrect)
			}
			if got.Wrong != tt.wantWrong {
				t.Errorf("Wrong = %d, want %d", got.Wrong, tt.wantWrong)
			}
			if got.Total != 3 {
				t.Errorf("Total = %d, want 3", got.Total)
			}
			if got.MaxMarks != 7 {
				t.Errorf("MaxMarks = %v, want 7", got.MaxMarks)
			}
		})
	}
}

func TestScoreSubmissionMissingKeyEntry(t *testing.T) {
	q1 := uuid.New()
	test := snapshotTest([]model.TestQuestion{
		{QuestionID: q1, Marks: 2, NegativeMarks: 1},
	}, 2)

	// Key lost the entry (e.g. question purged from the bank). The answer is
	// skipped rather than graded wrong.
	got := scoreSubmission(test, map[uuid.UUID]string{}, []model.AnswerSubmission{
		{QuestionID: q1, SelectedOption: "A"},
	})

	if got.Score != 0 || got.Correct != 0 || got.Wrong != 0 {
		t.Errorf("got score=%v correct=%d wrong=%d, want all zero", got.Score, got.Correct, got.Wrong)
	}
}
