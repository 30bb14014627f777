package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOutsideVault):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientDocuments),
		errors.Is(err, domain.ErrNoDocumentsIndexed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOracleFailed),
		errors.Is(err, domain.ErrMalformedLabel),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": ...} with the mapped status.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(err, "%s %s", c.Request.Method, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
