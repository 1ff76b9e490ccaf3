package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/services"
	"github.com/prep-ease/quiz-service/internal/utils"
	"github.com/prep-ease/quiz-service/internal/validator"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct{}

func NewBaseHandler() BaseHandler {
	return BaseHandler{}
}

// LogRequest logs through the request-scoped logger.
func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.ContextLogger(c).InfoContext(c.Request.Context(), msg, args...)
}

// parseIDParam parses a positive uint path parameter, writing a 400 and
// returning 0 on failure.
func (h BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// currentUser returns the authenticated user installed by the auth
// middleware, writing a 401 when absent.
func (h BaseHandler) currentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	return user
}

// handleServiceError maps service errors to HTTP responses in one place.
func (h BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
			Details: permErr.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrMalformedSubmission):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrQuizHasAttempts):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		utils.ContextLogger(c).ErrorContext(c.Request.Context(), "Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
