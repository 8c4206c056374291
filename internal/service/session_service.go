package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

// SessionService serves sanitized test papers and grades submissions.
type SessionService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	userRepo     *repository.UserRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		userRepo:     userRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// StartSession returns the sanitized paper for a test: the frozen snapshot
// expanded from the question bank with the correct answers stripped. The
// paper and the answer key are cached in Redis; the snapshot only changes on
// re-assembly, which invalidates both keys.
func (s *SessionService) StartSession(ctx context.Context, testID uuid.UUID) (*model.TestPaper, error) {
	paperKey := config.CacheKey.TestPaperKey(testID.String())

	if data, err := s.rdb.Get(ctx, paperKey).Bytes(); err == nil {
		var paper model.TestPaper
		if err := json.Unmarshal(data, &paper); err == nil {
			return &paper, nil
		}
		// Unreadable cache entry; rebuild from PostgreSQL.
		_ = s.rdb.Del(ctx, paperKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Paper cache read failed")
	}

	test, err := s.loadServableTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	paper, answerKey, err := s.buildPaper(ctx, test)
	if err != nil {
		return nil, err
	}

	s.warmSessionCache(ctx, testID, paper, answerKey)
	return paper, nil
}

// Submit grades a submission and persists it as the user's attempt unless one
// already exists for this (user, test) pair. Repeat submissions are still
// graded for display; the result's Stored flag reports whether this call
// created the attempt.
func (s *SessionService) Submit(ctx context.Context, testID uuid.UUID, userID int, answers []model.AnswerSubmission) (*model.ScoreResult, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	answerKey, err := s.answerKeyFor(ctx, test)
	if err != nil {
		return nil, err
	}

	result := scoreSubmission(test, answerKey, answers)

	attempt := &model.Attempt{
		UserID:   userID,
		TestID:   testID,
		Score:    result.Score,
		Correct:  result.Correct,
		Wrong:    result.Wrong,
		Total:    result.Total,
		MaxMarks: result.MaxMarks,
	}

	stored, err := s.attemptRepo.Insert(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}
	result.Stored = stored
	if stored {
		result.SubmittedAt = attempt.SubmittedAt
		s.queueLeaderboardRefresh(ctx, testID)
	} else {
		result.SubmittedAt = time.Now()
	}

	s.log.Info().
		Str("test_id", testID.String()).
		Int("user_id", userID).
		Float64("score", result.Score).
		Bool("stored", stored).
		Msg("Test submitted")
	return &result, nil
}

// HasAttempted reports whether the user already has a stored attempt.
func (s *SessionService) HasAttempted(ctx context.Context, testID uuid.UUID, userID int) (bool, error) {
	return s.attemptRepo.Exists(ctx, userID, testID)
}

// History returns the user's attempt history, newest first.
func (s *SessionService) History(ctx context.Context, userID int) ([]repository.AttemptRecord, error) {
	records, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []repository.AttemptRecord{}
	}
	return records, nil
}

// loadServableTest fetches a test that may be served to test-takers:
// it must exist and not be soft-deleted.
func (s *SessionService) loadServableTest(ctx context.Context, testID uuid.UUID) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.IsDeleted {
		return nil, ErrTestNotFound
	}
	return test, nil
}

// buildPaper expands the snapshot from the question bank into a sanitized
// paper and the matching answer key. SessionQuestion carries no correct
// answer fields at all, so sanitization holds by construction.
func (s *SessionService) buildPaper(ctx context.Context, test *model.Test) (*model.TestPaper, map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, len(test.Questions))
	for i, q := range test.Questions {
		ids[i] = q.QuestionID
	}

	bank, err := s.questionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]model.SessionQuestion, 0, len(test.Questions))
	answerKey := make(map[uuid.UUID]string, len(test.Questions))
	for _, entry := range test.Questions {
		q, ok := bank[entry.QuestionID]
		if !ok {
			// Snapshot references a question that has since vanished from
			// the bank. Serve the rest rather than failing the session.
			s.log.Warn().
				Str("test_id", test.ID.String()).
				Str("question_id", entry.QuestionID.String()).
				Msg("Snapshot question missing from bank")
			continue
		}
		questions = append(questions, model.SessionQuestion{
			QuestionID:    q.ID,
			Text:          q.Text,
			ImageURL:      q.ImageURL,
			Options:       q.Options,
			Hint:          q.Hint,
			Difficulty:    entry.Difficulty,
			Marks:         entry.Marks,
			NegativeMarks: entry.NegativeMarks,
		})
		answerKey[q.ID] = q.CorrectAnswer
	}

	paper := &model.TestPaper{
		TestID:          test.ID,
		Title:           test.Title,
		Description:     test.Description,
		DurationMinutes: test.DurationMinutes,
		TotalMarks:      test.TotalMarks,
		TotalQuestions:  test.TotalQuestions,
		Questions:       questions,
	}
	return paper, answerKey, nil
}

// answerKeyFor loads the ground truth for a test's snapshot, preferring the
// Redis hash and falling back to the question bank.
func (s *SessionService) answerKeyFor(ctx context.Context, test *model.Test) (map[uuid.UUID]string, error) {
	keyName := config.CacheKey.TestAnswerKey(test.ID.String())

	cached, err := s.rdb.HGetAll(ctx, keyName).Result()
	if err == nil && len(cached) > 0 {
		answerKey := make(map[uuid.UUID]string, len(cached))
		for id, answer := range cached {
			qid, err := uuid.Parse(id)
			if err != nil {
				continue
			}
			answerKey[qid] = answer
		}
		return answerKey, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("test_id", test.ID.String()).Msg("Answer key cache read failed")
	}

	// Cache miss: rebuild from the bank and self-heal the cache.
	paper, answerKey, err := s.buildPaper(ctx, test)
	if err != nil {
		return nil, err
	}
	s.warmSessionCache(ctx, test.ID, paper, answerKey)
	return answerKey, nil
}

// warmSessionCache stores the sanitized paper and answer key hash in one
// pipeline. Failures are logged, not fatal; PostgreSQL remains the source of
// truth.
func (s *SessionService) warmSessionCache(ctx context.Context, testID uuid.UUID, paper *model.TestPaper, answerKey map[uuid.UUID]string) {
	paperJSON, err := json.Marshal(paper)
	if err != nil {
		s.log.Error().Err(err).Str("test_id", testID.String()).Msg("Marshal paper failed")
		return
	}

	keyFields := make(map[string]interface{}, len(answerKey))
	for id, answer := range answerKey {
		keyFields[id.String()] = answer
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.TestPaperKey(testID.String()), paperJSON, 0)
	pipe.Del(ctx, config.CacheKey.TestAnswerKey(testID.String()))
	if len(keyFields) > 0 {
		pipe.HSet(ctx, config.CacheKey.TestAnswerKey(testID.String()), keyFields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Session cache warm failed")
	}
}

// queueLeaderboardRefresh hands the test id to the background worker so
// cached leaderboards are rebuilt and live viewers notified.
func (s *SessionService) queueLeaderboardRefresh(ctx context.Context, testID uuid.UUID) {
	if err := s.rdb.RPush(ctx, config.WorkerKey.LeaderboardRefreshQueue, testID.String()).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Leaderboard refresh enqueue failed")
	}
}
