package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/ventureforge/pkg/services"
)

// HTTPError is an error response with its status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return http.StatusText(e.Code) + ": " + e.Message
}

// mapServiceError maps service-layer errors to HTTP error responses.
func mapServiceError(err error) *HTTPError {
	var validErr *services.ValidationError
	if errors.As(err, &validErr) {
		return &HTTPError{Code: http.StatusBadRequest, Message: validErr.Error()}
	}
	if errors.Is(err, services.ErrNotFound) {
		return &HTTPError{Code: http.StatusNotFound, Message: "resource not found"}
	}
	if errors.Is(err, services.ErrConcurrentModification) {
		return &HTTPError{Code: http.StatusConflict, Message: "session was updated by another request, please retry"}
	}
	if errors.Is(err, services.ErrAlreadyExists) {
		return &HTTPError{Code: http.StatusConflict, Message: "resource already exists"}
	}

	// Unexpected error
	slog.Error("Unexpected service error", "error", err)
	return &HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
}

// abortWithError writes err as a JSON error body.
func abortWithError(c *gin.Context, err error) {
	he := mapServiceError(err)
	c.AbortWithStatusJSON(he.Code, ErrorResponse{Error: he.Message})
}

// abortBadRequest rejects a malformed request body.
func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}
