package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
	"github.com/upgradist/eduquest-backend/internal/response"
)

// sampleFunc draws a uniform random sample of active questions for a
// (topic, difficulty) pair, without replacement.
type sampleFunc func(ctx context.Context, topicID int, difficulty model.Difficulty, count int) ([]model.Question, error)

// TestService assembles tests from the question bank and manages their
// lifecycle. The assembled question list is a frozen snapshot; editing a test
// re-samples and replaces it wholesale.
type TestService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "test_service").Logger(),
	}
}

// buildQuestionSet runs the stratified sampling pass: for each tier with a
// positive count it samples exactly that many active questions, failing the
// whole assembly on the first shortfall. Entries come back in tier order;
// order within a tier is the sampler's output order and is not guaranteed.
func buildQuestionSet(ctx context.Context, req *model.AssembleTestRequest, sample sampleFunc) ([]model.TestQuestion, error) {
	var entries []model.TestQuestion

	for _, tier := range model.Tiers {
		count := req.QuestionCounts.ForTier(tier)
		if count <= 0 {
			continue
		}

		sampled, err := sample(ctx, req.TopicID, tier, count)
		if err != nil {
			return nil, fmt.Errorf("sample %s questions: %w", tier, err)
		}
		if len(sampled) < count {
			return nil, &InsufficientQuestionsError{
				Tier:      tier,
				Requested: count,
				Available: len(sampled),
			}
		}

		negativeMarks := 0.0
		if req.AllowNegativeMarking {
			negativeMarks = req.NegativeMarks.ForTier(tier)
		}
		for _, q := range sampled {
			entries = append(entries, model.TestQuestion{
				QuestionID:    q.ID,
				Difficulty:    tier,
				Marks:         req.Marks.ForTier(tier),
				NegativeMarks: negativeMarks,
			})
		}
	}

	return entries, nil
}

// snapshotTotals derives the stored totals from the assembled snapshot, so a
// request declaring inconsistent totals cannot make them drift from what the
// test actually contains.
func snapshotTotals(questions []model.TestQuestion) (totalMarks float64, totalQuestions int) {
	for _, q := range questions {
		totalMarks += q.Marks
	}
	return totalMarks, len(questions)
}

// Assemble samples the question bank per the request and persists a new test.
// Sampling shortfalls abort before anything is written.
func (s *TestService) Assemble(ctx context.Context, req *model.AssembleTestRequest) (*model.Test, error) {
	questions, err := buildQuestionSet(ctx, req, s.questionRepo.SampleActive)
	if err != nil {
		return nil, err
	}
	totalMarks, totalQuestions := snapshotTotals(questions)

	test := &model.Test{
		Title:                req.Title,
		Description:          req.Description,
		SubjectID:            req.SubjectID,
		TopicIDs:             []int{req.TopicID},
		DurationMinutes:      req.Duration,
		Type:                 testTypeOrDefault(req.Type),
		AllowNegativeMarking: req.AllowNegativeMarking,
		TotalMarks:           totalMarks,
		TotalQuestions:       totalQuestions,
		Questions:            questions,
	}

	if err := s.testRepo.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	s.log.Info().
		Str("test_id", test.ID.String()).
		Int("questions", len(test.Questions)).
		Msg("Test assembled")
	return test, nil
}

// Reassemble re-runs the sampling algorithm against a fresh request and
// replaces the target test's snapshot entirely. Prior selections carry no
// weight in the new sample.
func (s *TestService) Reassemble(ctx context.Context, testID uuid.UUID, req *model.AssembleTestRequest) (*model.Test, error) {
	existing, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	questions, err := buildQuestionSet(ctx, req, s.questionRepo.SampleActive)
	if err != nil {
		return nil, err
	}
	totalMarks, totalQuestions := snapshotTotals(questions)

	test := &model.Test{
		ID:                   existing.ID,
		Title:                req.Title,
		Description:          req.Description,
		SubjectID:            req.SubjectID,
		TopicIDs:             []int{req.TopicID},
		DurationMinutes:      req.Duration,
		Type:                 testTypeOrDefault(req.Type),
		AllowNegativeMarking: req.AllowNegativeMarking,
		TotalMarks:           totalMarks,
		TotalQuestions:       totalQuestions,
		Questions:            questions,
	}

	if err := s.testRepo.Replace(ctx, test); err != nil {
		return nil, fmt.Errorf("replace test: %w", err)
	}

	// The cached paper and answer key describe the old snapshot.
	s.invalidateSessionCache(ctx, testID)

	s.log.Info().
		Str("test_id", testID.String()).
		Int("questions", len(test.Questions)).
		Msg("Test re-assembled")
	return test, nil
}

// GetByID retrieves a test together with the per-tier breakdown the edit form
// needs (marks, penalties and counts reconstructed from the snapshot).
func (s *TestService) GetByID(ctx context.Context, testID uuid.UUID) (*model.Test, *model.TestBreakdown, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrTestNotFound
		}
		return nil, nil, err
	}

	breakdown := &model.TestBreakdown{}
	for _, q := range test.Questions {
		switch q.Difficulty {
		case model.DifficultyEasy:
			breakdown.QuestionCounts.Easy++
			breakdown.Marks.Easy = q.Marks
			breakdown.NegativeMarks.Easy = q.NegativeMarks
		case model.DifficultyMedium:
			breakdown.QuestionCounts.Medium++
			breakdown.Marks.Medium = q.Marks
			breakdown.NegativeMarks.Medium = q.NegativeMarks
		case model.DifficultyHard:
			breakdown.QuestionCounts.Hard++
			breakdown.Marks.Hard = q.Marks
			breakdown.NegativeMarks.Hard = q.NegativeMarks
		}
	}

	return test, breakdown, nil
}

// List retrieves tests matching the filter with pagination.
func (s *TestService) List(ctx context.Context, f model.TestFilter, page, perPage int) ([]model.Test, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	tests, total, err := s.testRepo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if tests == nil {
		tests = []model.Test{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return tests, pagination, nil
}

// SoftDelete flags a test as deleted without removing it.
func (s *TestService) SoftDelete(ctx context.Context, testID uuid.UUID) error {
	if err := s.testRepo.SetDeleted(ctx, testID, true); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTestNotFound
		}
		return err
	}
	s.invalidateSessionCache(ctx, testID)
	s.log.Info().Str("test_id", testID.String()).Msg("Test soft deleted")
	return nil
}

// Restore clears a test's soft-delete flag.
func (s *TestService) Restore(ctx context.Context, testID uuid.UUID) error {
	if err := s.testRepo.SetDeleted(ctx, testID, false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTestNotFound
		}
		return err
	}
	s.log.Info().Str("test_id", testID.String()).Msg("Test restored")
	return nil
}

// invalidateSessionCache drops the cached paper and answer key for a test.
func (s *TestService) invalidateSessionCache(ctx context.Context, testID uuid.UUID) {
	if err := s.rdb.Del(ctx,
		config.CacheKey.TestPaperKey(testID.String()),
		config.CacheKey.TestAnswerKey(testID.String()),
	).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Session cache invalidation failed")
	}
}

func testTypeOrDefault(t string) model.TestType {
	if t == "" {
		return model.TestTypePractice
	}
	return model.TestType(t)
}
