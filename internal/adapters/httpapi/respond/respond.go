package respond

import (
	"errors"
	"net/http"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/reservation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps integrity errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, integrity.ErrValidation), errors.Is(err, integrity.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, integrity.ErrDuplicate), errors.Is(err, reservation.ErrPaymentState):
		return http.StatusConflict
	case errors.Is(err, integrity.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error writes err as JSON. Validation errors carry the offending field;
// internal errors are logged and hidden.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	body := gin.H{"error": err.Error()}

	var verr *integrity.ValidationError
	if errors.As(err, &verr) {
		body = gin.H{"error": "validation failed", "entity": verr.Entity, "field": verr.Field, "rule": verr.Rule}
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body = gin.H{"error": "internal error"}
	}
	c.JSON(status, body)
}
