package model

import "time"

// Topic represents a unit of study inside a subject. Questions are tagged by
// topic and difficulty; test assembly samples per (topic, difficulty).
type Topic struct {
	ID             int       `json:"id"`
	SubjectID      int       `json:"subject_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Slug           string    `json:"slug"`
	QuestionsCount int       `json:"questions_count"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateTopicRequest is the payload for creating a topic.
type CreateTopicRequest struct {
	SubjectID   int    `json:"subject_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Slug        string `json:"slug" binding:"required,min=2,max=100,lowercase"`
}

// UpdateTopicRequest is the payload for updating a topic.
type UpdateTopicRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}
