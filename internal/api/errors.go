package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// MsgInternalError is the body of every 500 response
const MsgInternalError = "Internal server error"

// statusFor maps a service error category to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"detail": msg}. Storage failures are logged and
// reported without their driver text.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		abortWithDetail(c, status, MsgInternalError)
		return
	}

	msg := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Message
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	abortWithDetail(c, status, msg)
}

func abortWithDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func badRequest(c *gin.Context, msg string) {
	abortWithDetail(c, http.StatusBadRequest, msg)
}
