package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Client-facing error messages.
const (
	msgAccessTokenRequired = "Access token required"
	msgInvalidAccessToken  = "Invalid or expired token"
	msgUserNotFound        = "User not found"
	msgAuthFailed          = "Authentication failed"

	msgMissingFields        = "Missing required fields"
	msgUserExists           = "User already exists"
	msgInvalidCredentials   = "Invalid credentials"
	msgRefreshTokenRequired = "Refresh token required"
	msgInvalidRefreshToken  = "Invalid refresh token"
	msgExpiredRefreshToken  = "Invalid or expired refresh token"
	msgLoggedOut            = "Logged out successfully"

	msgNameRequired       = "Name is required"
	msgCommunityExists    = "Community already exists"
	msgCommunityNotFound  = "Community not found"
	msgPostNotFound       = "Post not found"
	msgCommentFields      = "Content and postId are required"
	msgInvalidParent      = "Invalid parent comment"
	msgStorageUnavailable = "Avatar storage not configured"
	msgInternal           = "Internal server error"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the request body into dst. Any binding or validation
// failure is answered with 400 and msg.
func (s *Server) bindJSON(c *gin.Context, dst any, msg string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		s.logger.Debug(c.Request.Context(), "request validation failed", "path", c.FullPath(), "fields", fields)
	} else {
		s.logger.Debug(c.Request.Context(), "malformed request body", "path", c.FullPath(), "err", err)
	}

	abortWithError(c, http.StatusBadRequest, msg)
	return false
}

// fail maps a service error to a status code. notFound is the message used
// for common.ErrorNotFound; anything unrecognised is logged and reported as
// 500.
func (s *Server) fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		abortWithError(c, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, common.ErrorNotFound):
		abortWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, msgStorageUnavailable)
	default:
		s.internalError(c, err)
	}
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
	abortWithError(c, http.StatusInternalServerError, msgInternal)
}
