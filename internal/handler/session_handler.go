package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/middleware"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/response"
	"github.com/upgradist/eduquest-backend/internal/service"
	"github.com/upgradist/eduquest-backend/internal/validator"
)

// SessionHandler serves test papers to takers and accepts submissions.
type SessionHandler struct {
	sessionService *service.SessionService
	testService    *service.TestService
}

func NewSessionHandler(sessionService *service.SessionService, testService *service.TestService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, testService: testService}
}

// ListTests godoc
// GET /api/v1/tests
// Lists active tests available to take.
func (h *SessionHandler) ListTests(c *gin.Context) {
	filter := model.TestFilter{Search: c.Query("search"), Type: c.DefaultQuery("type", "all")}

	page, perPage := pageQuery(c)

	tests, pagination, err := h.testService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Strip snapshots; takers get questions through the paper endpoint only.
	summaries := make([]gin.H, len(tests))
	for i, t := range tests {
		summaries[i] = gin.H{
			"id":               t.ID,
			"title":            t.Title,
			"description":      t.Description,
			"subject_id":       t.SubjectID,
			"duration_minutes": t.DurationMinutes,
			"type":             t.Type,
			"total_marks":      t.TotalMarks,
			"total_questions":  t.TotalQuestions,
			"created_at":       t.CreatedAt,
		}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"tests": summaries}, pagination)
}

// GetPaper godoc
// GET /api/v1/tests/:id/paper
// Returns the sanitized paper. Correct answers never appear in this payload.
func (h *SessionHandler) GetPaper(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.sessionService.StartSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// Submit godoc
// POST /api/v1/tests/:id/submit
// Grades the submission. Only the first submission per user and test is
// persisted; later ones return their computed score with stored=false.
func (h *SessionHandler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), id, claims.UserID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		case errors.Is(err, service.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Attempted godoc
// GET /api/v1/tests/:id/attempted
func (h *SessionHandler) Attempted(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempted, err := h.sessionService.HasAttempted(c.Request.Context(), id, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempted": attempted})
}

// History godoc
// GET /api/v1/attempts
// Returns the caller's attempt history, newest first.
func (h *SessionHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.sessionService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
