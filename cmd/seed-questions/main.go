package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/database"
	"github.com/upgradist/eduquest-backend/internal/logger"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
	"github.com/upgradist/eduquest-backend/internal/service"
)

// Seeds a demo subject/topic with a bank large enough to assemble tests
// against: 30 questions per difficulty tier.
const questionsPerTier = 30

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectRepo := repository.NewSubjectRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	subjectService := service.NewSubjectService(subjectRepo, log)
	topicService := service.NewTopicService(topicRepo, subjectRepo, log)
	questionService := service.NewQuestionService(questionRepo, topicRepo, log)

	fmt.Println("=== Seeding Demo Question Bank ===")

	subject, err := findOrCreateSubject(ctx, pool, subjectService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare subject")
	}

	topic, err := findOrCreateTopic(ctx, pool, topicService, subject.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare topic")
	}

	created := 0
	for _, tier := range model.Tiers {
		for i := 1; i <= questionsPerTier; i++ {
			correct := fmt.Sprintf("Answer %d-A", i)
			req := &model.CreateQuestionRequest{
				SubjectID:     subject.ID,
				TopicID:       topic.ID,
				Text:          fmt.Sprintf("[%s #%d] Which option is marked correct for this seeded question?", tier, i),
				Options:       []string{correct, fmt.Sprintf("Answer %d-B", i), fmt.Sprintf("Answer %d-C", i), fmt.Sprintf("Answer %d-D", i)},
				CorrectAnswer: correct,
				Difficulty:    string(tier),
				Hint:          "The first option is the seeded answer.",
			}
			if _, err := questionService.Create(ctx, req); err != nil {
				log.Fatal().Err(err).Str("difficulty", string(tier)).Msg("Failed to seed question")
			}
			created++
		}
	}

	fmt.Printf("Seeded %d questions into %s / %s\n", created, subject.Name, topic.Name)
}

func findOrCreateSubject(ctx context.Context, pool *pgxpool.Pool, svc *service.SubjectService) (*model.Subject, error) {
	var id int
	err := pool.QueryRow(ctx, "SELECT id FROM subjects WHERE slug = $1", "general-knowledge").Scan(&id)
	if err == nil {
		return svc.GetByID(ctx, id)
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}
	fmt.Println("Subject not found. Creating it...")
	return svc.Create(ctx, &model.CreateSubjectRequest{
		Name:        "General Knowledge",
		Description: "Seeded demo subject",
		Slug:        "general-knowledge",
	})
}

func findOrCreateTopic(ctx context.Context, pool *pgxpool.Pool, svc *service.TopicService, subjectID int) (*model.Topic, error) {
	var id int
	err := pool.QueryRow(ctx, "SELECT id FROM topics WHERE slug = $1 AND subject_id = $2", "basics", subjectID).Scan(&id)
	if err == nil {
		return svc.GetByID(ctx, id)
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}
	fmt.Println("Topic not found. Creating it...")
	return svc.Create(ctx, &model.CreateTopicRequest{
		SubjectID:   subjectID,
		Name:        "Basics",
		Description: "Seeded demo topic",
		Slug:        "basics",
	})
}
