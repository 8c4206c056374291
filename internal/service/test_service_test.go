package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/model"
)

// fakeBank returns a sampleFunc backed by a fixed pool size per tier.
func fakeBank(pool map[model.Difficulty]int) sampleFunc {
	return func(_ context.Context, _ int, difficulty model.Difficulty, count int) ([]model.Question, error) {
		available := pool[difficulty]
		n := count
		if n > available {
			n = available
		}
		questions := make([]model.Question, n)
		for i := range questions {
			questions[i] = model.Question{ID: uuid.New(), Difficulty: difficulty}
		}
		return questions, nil
	}
}

func assembleRequest() *model.AssembleTestRequest {
	return &model.AssembleTestRequest{
		Title:          "Algebra basics",
		Duration:       60,
		SubjectID:      1,
		TopicID:        1,
		Marks:          model.TierValues{Easy: 1, Medium: 2, Hard: 4},
		NegativeMarks:  model.TierValues{Easy: 0.25, Medium: 0.5, Hard: 1},
		QuestionCounts: model.TierCounts{Easy: 5, Medium: 3, Hard: 2},
		TotalMarks:     19,
		TotalQuestions: 10,
	}
}

func TestBuildQuestionSetCounts(t *testing.T) {
	req := assembleRequest()
	req.AllowNegativeMarking = true

	entries, err := buildQuestionSet(context.Background(), req, fakeBank(map[model.Difficulty]int{
		model.DifficultyEasy:   20,
		model.DifficultyMedium: 20,
		model.DifficultyHard:   20,
	}))
	if err != nil {
		t.Fatalf("buildQuestionSet: %v", err)
	}

	if len(entries) != 10 {
		t.Fatalf("got %d entries, want 10", len(entries))
	}

	perTier := map[model.Difficulty]int{}
	seen := map[uuid.UUID]bool{}
	for _, e := range entries {
		perTier[e.Difficulty]++
		if seen[e.QuestionID] {
			t.Errorf("question %s appears twice", e.QuestionID)
		}
		seen[e.QuestionID] = true
	}

	if perTier[model.DifficultyEasy] != 5 || perTier[model.DifficultyMedium] != 3 || perTier[model.DifficultyHard] != 2 {
		t.Errorf("tier counts = %v, want easy=5 medium=3 hard=2", perTier)
	}

	for _, e := range entries {
		wantMarks := req.Marks.ForTier(e.Difficulty)
		if e.Marks != wantMarks {
			t.Errorf("%s entry marks = %v, want %v", e.Difficulty, e.Marks, wantMarks)
		}
		wantPenalty := req.NegativeMarks.ForTier(e.Difficulty)
		if e.NegativeMarks != wantPenalty {
			t.Errorf("%s entry penalty = %v, want %v", e.Difficulty, e.NegativeMarks, wantPenalty)
		}
	}
}

func TestBuildQuestionSetShortfall(t *testing.T) {
	req := assembleRequest()

	_, err := buildQuestionSet(context.Background(), req, fakeBank(map[model.Difficulty]int{
		model.DifficultyEasy:   20,
		model.DifficultyMedium: 2, // one short of the requested 3
		model.DifficultyHard:   20,
	}))

	var insufficient *InsufficientQuestionsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("got err %v, want InsufficientQuestionsError", err)
	}
	if insufficient.Tier != model.DifficultyMedium {
		t.Errorf("Tier = %s, want medium", insufficient.Tier)
	}
	if insufficient.Requested != 3 || insufficient.Available != 2 {
		t.Errorf("Requested/Available = %d/%d, want 3/2", insufficient.Requested, insufficient.Available)
	}
}

func TestBuildQuestionSetNegativeMarkingDisabled(t *testing.T) {
	req := assembleRequest()
	req.AllowNegativeMarking = false

	entries, err := buildQuestionSet(context.Background(), req, fakeBank(map[model.Difficulty]int{
		model.DifficultyEasy:   20,
		model.DifficultyMedium: 20,
		model.DifficultyHard:   20,
	}))
	if err != nil {
		t.Fatalf("buildQuestionSet: %v", err)
	}

	// Configured penalties are discarded, not just ignored at grading time.
	for _, e := range entries {
		if e.NegativeMarks != 0 {
			t.Errorf("%s entry penalty = %v, want 0", e.Difficulty, e.NegativeMarks)
		}
	}
}

func TestBuildQuestionSetSkipsZeroTiers(t *testing.T) {
	req := assembleRequest()
	req.QuestionCounts = model.TierCounts{Easy: 4}
	req.TotalQuestions = 4

	sampleCalls := 0
	sample := func(ctx context.Context, topicID int, difficulty model.Difficulty, count int) ([]model.Question, error) {
		sampleCalls++
		if difficulty != model.DifficultyEasy {
			t.Errorf("sampled tier %s, want only easy", difficulty)
		}
		return fakeBank(map[model.Difficulty]int{model.DifficultyEasy: 10})(ctx, topicID, difficulty, count)
	}

	entries, err := buildQuestionSet(context.Background(), req, sample)
	if err != nil {
		t.Fatalf("buildQuestionSet: %v", err)
	}
	if sampleCalls != 1 {
		t.Errorf("sample called %d times, want 1", sampleCalls)
	}
	if len(entries) != 4 {
		t.Errorf("got %d entries, want 4", len(entries))
	}
}

func TestSnapshotTotalsIgnoreDeclaredTotals(t *testing.T) {
	req := assembleRequest()
	// Declared totals are deliberately wrong; stored totals must come from
	// the snapshot itself.
	req.TotalMarks = 999
	req.TotalQuestions = 42

	entries, err := buildQuestionSet(context.Background(), req, fakeBank(map[model.Difficulty]int{
		model.DifficultyEasy:   20,
		model.DifficultyMedium: 20,
		model.DifficultyHard:   20,
	}))
	if err != nil {
		t.Fatalf("buildQuestionSet: %v", err)
	}

	totalMarks, totalQuestions := snapshotTotals(entries)
	if totalMarks != 19 {
		t.Errorf("totalMarks = %v, want 19 (5*1 + 3*2 + 2*4)", totalMarks)
	}
	if totalQuestions != 10 {
		t.Errorf("totalQuestions = %d, want 10", totalQuestions)
	}
}

func TestSnapshotTotalsEmpty(t *testing.T) {
	totalMarks, totalQuestions := snapshotTotals(nil)
	if totalMarks != 0 || totalQuestions != 0 {
		t.Errorf("snapshotTotals(nil) = (%v, %d), want (0, 0)", totalMarks, totalQuestions)
	}
}
