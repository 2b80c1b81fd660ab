package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/learnlite/course-platform/internal/errors"
	"github.com/learnlite/course-platform/internal/middleware"
	"github.com/learnlite/course-platform/internal/services"
)

func parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// currentUserID returns the identity asserted by the auth middleware; an
// empty return means the response has already been written.
func currentUserID(c *gin.Context) string {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
	}
	return userID
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Expected outcomes (not found, forbidden, conflict, validation) carry
// context; anything else is logged server-side and returned opaque.
func handleServiceError(h *BaseHandler, c *gin.Context, err error) {
	var attemptConflict *services.AttemptConflictError
	if errors.As(err, &attemptConflict) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Quiz already attempted",
			Details: attemptConflict,
		})
		return
	}

	var completionConflict *services.CompletionConflictError
	if errors.As(err, &completionConflict) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Already completed",
			Details: completionConflict,
		})
		return
	}

	var answerError *services.AnswerValidationError
	if errors.As(err, &answerError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answers",
			Details: answerError,
		})
		return
	}

	var validationErrors apperrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
