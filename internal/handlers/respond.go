package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lireddit/internal/apperror"
)

// renderError maps the error taxonomy to HTTP responses. Validation errors
// come back as field-message pairs for user display; everything unexpected
// collapses to a 500 without leaking internals.
func renderError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(appErr, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"errors": appErr.Fields})
		case errors.Is(appErr, apperror.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": appErr.Message})
		case errors.Is(appErr, apperror.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": appErr.Message})
		case errors.Is(appErr, apperror.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": appErr.Message})
		}
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
