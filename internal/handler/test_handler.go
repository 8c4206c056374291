package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/response"
	"github.com/upgradist/eduquest-backend/internal/service"
	"github.com/upgradist/eduquest-backend/internal/validator"
)

// TestHandler exposes test assembly and management to admins.
type TestHandler struct {
	testService *service.TestService
}

func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Assemble godoc
// POST /api/v1/admin/tests
// Builds a new test by stratified random sampling from the question bank.
func (h *TestHandler) Assemble(c *gin.Context) {
	var req model.AssembleTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Assemble(c.Request.Context(), &req)
	if err != nil {
		h.failAssembly(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"test": test})
}

// Reassemble godoc
// PUT /api/v1/admin/tests/:id
// Re-runs sampling with the new settings and replaces the snapshot.
func (h *TestHandler) Reassemble(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AssembleTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Reassemble(c.Request.Context(), id, &req)
	if err != nil {
		h.failAssembly(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// List godoc
// GET /api/v1/admin/tests
func (h *TestHandler) List(c *gin.Context) {
	filter := model.TestFilter{
		Search:         c.Query("search"),
		Type:           c.DefaultQuery("type", "all"),
		IncludeDeleted: c.Query("include_deleted") == "true",
	}
	page, perPage := pageQuery(c)

	tests, pagination, err := h.testService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"tests": tests}, pagination)
}

// Get godoc
// GET /api/v1/admin/tests/:id
// Returns the test with its per-difficulty breakdown for the edit form.
func (h *TestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	test, breakdown, err := h.testService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test, "breakdown": breakdown})
}

// Delete godoc
// DELETE /api/v1/admin/tests/:id
// Soft delete: the test disappears from listings and sessions but attempts
// and leaderboards keep their history.
func (h *TestHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "test deleted successfully"})
}

// Restore godoc
// POST /api/v1/admin/tests/:id/restore
func (h *TestHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "test restored successfully"})
}

func (h *TestHandler) failAssembly(c *gin.Context, err error) {
	var insufficient *service.InsufficientQuestionsError
	switch {
	case errors.As(err, &insufficient):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrInsufficientQuestions, insufficient.Error())
	case errors.Is(err, service.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
	case errors.Is(err, service.ErrTopicNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
