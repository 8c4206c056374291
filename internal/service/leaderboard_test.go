package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

func TestRankTestLeaderboard(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := []repository.TestAttemptRow{
		{Name: "carol", Score: 7, SubmittedAt: base.Add(2 * time.Minute)},
		{Name: "alice", Score: 9, SubmittedAt: base.Add(5 * time.Minute)},
		{Name: "bob", Score: 9, SubmittedAt: base.Add(1 * time.Minute)},
		{Name: "dave", Score: -1, SubmittedAt: base},
	}

	entries := rankTestLeaderboard(rows)

	wantOrder := []string{"bob", "alice", "carol", "dave"}
	for i, want := range wantOrder {
		if entries[i].Name != want {
			t.Errorf("position %d = %s, want %s", i, entries[i].Name, want)
		}
	}
}

func TestRankOverallLeaderboard(t *testing.T) {
	users := []repository.UserAttempts{
		{
			UserID: 1, Name: "alice",
			Attempts: []repository.AttemptRecord{
				{Score: 8, MaxMarks: 10, Correct: 8, Wrong: 2},
				{Score: 6, MaxMarks: 10, Correct: 6, Wrong: 4},
			},
		},
		{
			UserID: 2, Name: "bob",
			Attempts: []repository.AttemptRecord{
				{Score: 5, MaxMarks: 10, Correct: 5, Wrong: 0},
			},
		},
		{
			// Same accuracy as alice (70%), lower total score than her 14.
			UserID: 3, Name: "carol",
			Attempts: []repository.AttemptRecord{
				{Score: 7, MaxMarks: 10, Correct: 7, Wrong: 3},
			},
		},
		{UserID: 4, Name: "ghost"},
	}

	entries := rankOverallLeaderboard(users)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (users without attempts excluded)", len(entries))
	}

	wantOrder := []string{"bob", "alice", "carol"}
	for i, want := range wantOrder {
		if entries[i].Name != want {
			t.Errorf("position %d = %s, want %s", i, entries[i].Name, want)
		}
	}

	alice := entries[1]
	if alice.TotalTests != 2 || alice.TotalScore != 14 || alice.AverageScore != 7 {
		t.Errorf("alice aggregates = {tests:%d score:%v avg:%v}, want {2 14 7}",
			alice.TotalTests, alice.TotalScore, alice.AverageScore)
	}
	if alice.Accuracy != 70 {
		t.Errorf("alice accuracy = %v, want 70", alice.Accuracy)
	}
}

func TestAccuracyZeroWhenNothingAnswered(t *testing.T) {
	if got := accuracy(0, 0); got != 0 {
		t.Errorf("accuracy(0,0) = %v, want 0", got)
	}
}

func TestRankDetailedLeaderboard(t *testing.T) {
	testID := uuid.New()
	otherTest := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	users := []repository.UserAttempts{
		{
			UserID: 1, Name: "alice",
			Attempts: []repository.AttemptRecord{
				{TestID: otherTest, TestTitle: "older", Score: 3, SubmittedAt: base.Add(-time.Hour)},
				{TestID: testID, TestTitle: "target", Score: 8, Correct: 8, Wrong: 2, Total: 10, MaxMarks: 10, SubmittedAt: base},
			},
		},
		{
			// Same score as alice on the target test but lower accuracy.
			UserID: 2, Name: "bob",
			Attempts: []repository.AttemptRecord{
				{TestID: testID, TestTitle: "target", Score: 8, Correct: 4, Wrong: 2, Total: 10, MaxMarks: 10, SubmittedAt: base},
			},
		},
		{
			// No attempt for the target test: excluded despite history.
			UserID: 3, Name: "carol",
			Attempts: []repository.AttemptRecord{
				{TestID: otherTest, Score: 10, SubmittedAt: base},
			},
		},
	}

	entries := rankDetailedLeaderboard(testID.String(), users)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "alice" || entries[1].Name != "bob" {
		t.Errorf("order = [%s %s], want [alice bob]", entries[0].Name, entries[1].Name)
	}

	alice := entries[0]
	if alice.Score != 8 || alice.Accuracy != 80 {
		t.Errorf("alice score/accuracy = %v/%v, want 8/80", alice.Score, alice.Accuracy)
	}
	if alice.AverageScore != 5.5 {
		t.Errorf("alice average = %v, want 5.5 (cross-test)", alice.AverageScore)
	}
	if len(alice.RecentAttempts) != 2 {
		t.Fatalf("alice recent = %d, want 2", len(alice.RecentAttempts))
	}
	if alice.RecentAttempts[0].TestTitle != "target" {
		t.Errorf("recent[0] = %s, want target (newest first)", alice.RecentAttempts[0].TestTitle)
	}
}

func TestRecentAttemptsCap(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var attempts []repository.AttemptRecord
	for i := 0; i < 5; i++ {
		attempts = append(attempts, repository.AttemptRecord{
			TestID:      uuid.New(),
			Score:       float64(i),
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	recent := recentAttempts(attempts, 3)

	if len(recent) != 3 {
		t.Fatalf("got %d, want 3", len(recent))
	}
	// Newest first: attempts 4, 3, 2.
	for i, wantScore := range []float64{4, 3, 2} {
		if recent[i].Score != wantScore {
			t.Errorf("recent[%d].Score = %v, want %v", i, recent[i].Score, wantScore)
		}
	}
}
