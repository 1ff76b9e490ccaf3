package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prep-ease/quiz-service/internal/services"
	"github.com/prep-ease/quiz-service/internal/validator"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(),
		attemptService: attemptService,
	}
}

// SubmitAttempt records one quiz attempt. 201 when this call wrote the
// ledger row; 409 with the recorded attempt when one already existed, which
// clients treat as success.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	var req validator.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID, "timed_out", req.TimedOut)

	result, err := h.attemptService.Submit(c.Request.Context(), quizID, user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.AlreadySubmitted {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListAttempts returns the caller's prior attempts for a quiz (all
// students' attempts for teachers and admins). Clients call this before
// starting a session to short-circuit already-completed quizzes.
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	h.LogRequest(c, "Listing quiz attempts", "quiz_id", quizID)

	attempts, err := h.attemptService.ListAttempts(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}
