package service

import (
	"sort"

	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

// accuracy is the percentage of answered questions that were correct.
// Unanswered questions do not count against it.
func accuracy(correct, wrong int) float64 {
	answered := correct + wrong
	if answered == 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

// rankTestLeaderboard orders per-test attempt rows into leaderboard entries:
// highest score first, earlier submission breaking ties.
func rankTestLeaderboard(rows []repository.TestAttemptRow) []model.TestLeaderboardEntry {
	entries := make([]model.TestLeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = model.TestLeaderboardEntry{
			Name:           row.Name,
			Email:          row.Email,
			ProfilePicture: row.ProfilePicture,
			Score:          row.Score,
			Correct:        row.Correct,
			Wrong:          row.Wrong,
			SubmittedAt:    row.SubmittedAt,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
	})
	return entries
}

// rankOverallLeaderboard aggregates each user's full history into one row and
// orders by accuracy, then total score.
func rankOverallLeaderboard(users []repository.UserAttempts) []model.OverallLeaderboardEntry {
	entries := make([]model.OverallLeaderboardEntry, 0, len(users))
	for _, u := range users {
		if len(u.Attempts) == 0 {
			continue
		}
		var totalScore, totalMarks float64
		var correct, wrong int
		for _, a := range u.Attempts {
			totalScore += a.Score
			totalMarks += a.MaxMarks
			correct += a.Correct
			wrong += a.Wrong
		}
		entries = append(entries, model.OverallLeaderboardEntry{
			UserID:         u.UserID,
			Name:           u.Name,
			ProfilePicture: u.ProfilePicture,
			TotalTests:     len(u.Attempts),
			TotalScore:     totalScore,
			AverageScore:   totalScore / float64(len(u.Attempts)),
			TotalMarks:     totalMarks,
			Accuracy:       accuracy(correct, wrong),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Accuracy != entries[j].Accuracy {
			return entries[i].Accuracy > entries[j].Accuracy
		}
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}

// rankDetailedLeaderboard builds the per-test leaderboard enriched with each
// user's cross-test profile. Users without an attempt for the target test are
// skipped; ordering is score, then per-attempt accuracy on that test.
func rankDetailedLeaderboard(testID string, users []repository.UserAttempts) []model.DetailedLeaderboardEntry {
	entries := make([]model.DetailedLeaderboardEntry, 0, len(users))
	for _, u := range users {
		target, ok := findAttempt(u.Attempts, testID)
		if !ok {
			continue
		}

		var totalScore float64
		for _, a := range u.Attempts {
			totalScore += a.Score
		}

		entries = append(entries, model.DetailedLeaderboardEntry{
			UserID:         u.UserID,
			Name:           u.Name,
			ProfilePicture: u.ProfilePicture,
			TotalTests:     len(u.Attempts),
			Score:          target.Score,
			AverageScore:   totalScore / float64(len(u.Attempts)),
			Correct:        target.Correct,
			Wrong:          target.Wrong,
			Total:          target.Total,
			MaxMarks:       target.MaxMarks,
			Accuracy:       accuracy(target.Correct, target.Wrong),
			SubmittedAt:    target.SubmittedAt,
			RecentAttempts: recentAttempts(u.Attempts, 3),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Accuracy > entries[j].Accuracy
	})
	return entries
}

func findAttempt(attempts []repository.AttemptRecord, testID string) (repository.AttemptRecord, bool) {
	for _, a := range attempts {
		if a.TestID.String() == testID {
			return a, true
		}
	}
	return repository.AttemptRecord{}, false
}

// recentAttempts returns up to limit attempts, newest first.
func recentAttempts(attempts []repository.AttemptRecord, limit int) []model.RecentAttempt {
	sorted := make([]repository.AttemptRecord, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	recent := make([]model.RecentAttempt, len(sorted))
	for i, a := range sorted {
		recent[i] = model.RecentAttempt{
			TestID:      a.TestID,
			TestTitle:   a.TestTitle,
			Score:       a.Score,
			SubmittedAt: a.SubmittedAt,
		}
	}
	return recent
}
