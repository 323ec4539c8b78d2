package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/todo"
)

const (
	msgIncorrectCredentials = "Incorrect credentials."
	msgAccountDisabled      = "User account is disabled."
	msgThrottled            = "Request was throttled."
	msgTokenInvalid         = "Token is invalid or expired"
	msgNoRefresh            = "No refresh token provided."
	msgNotFound             = "Not found."
	msgInternal             = "Internal server error."
	msgUnavailable          = "Service temporarily unavailable."
)

// writeError maps domain errors to HTTP responses. Anything unrecognised is
// logged and reported as 500 without detail.
func (s *Server) writeError(c *gin.Context, err error) {
	var verr *muhasabah.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, muhasabah.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{msgIncorrectCredentials}})
	case errors.Is(err, muhasabah.ErrAccountDisabled):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{msgAccountDisabled}})
	case errors.Is(err, muhasabah.ErrLoginRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": msgThrottled})
	case errors.Is(err, muhasabah.ErrRefreshMissing):
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgNoRefresh})
	case errors.Is(err, muhasabah.ErrRefreshInvalid), errors.Is(err, muhasabah.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgTokenInvalid, "code": "token_not_valid"})
	case errors.Is(err, todo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	case errors.Is(err, muhasabah.ErrThrottleUnavailable):
		s.logger.WithError(err).Error("login throttle unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": msgUnavailable})
	default:
		s.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
	}
}

// bindJSON decodes the body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	return true
}
