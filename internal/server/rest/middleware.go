package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
	corsMaxAge       = "86400"
)

// cors answers preflights with 204 and echoes allowed origins with
// credentials. Requests from other origins get no CORS headers at all.
func (s *Server) cors(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin == "" {
		c.Next()
		return
	}

	_, allowed := s.allowedOrigins[origin]
	if allowed {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	}

	if c.Request.Method == http.MethodOptions {
		if allowed {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Info(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start).String(),
	)
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic while serving request", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		abortWithError(c, http.StatusInternalServerError, msgInternal)
	})
}

// timeout bounds every request's context by the configured RequestTimeout.
func (s *Server) timeout(c *gin.Context) {
	if s.requestTimeout <= 0 {
		c.Next()
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate runs the gateway checks. On failure it returns the 401
// message to send. A panic is converted into a generic failure so the
// request is never let through unauthenticated.
func (s *Server) authenticate(c *gin.Context) (id auth.Identity, msg string) {
	ctx := c.Request.Context()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "auth gateway panic", "panic", fmt.Sprint(r))
			id, msg = auth.Identity{}, msgAuthFailed
		}
	}()

	token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		return auth.Identity{}, msgAccessTokenRequired
	}

	id, err := s.users.Authenticate(ctx, token)
	switch {
	case err == nil:
		return id, ""
	case errors.Is(err, common.ErrInvalidToken):
		return auth.Identity{}, msgInvalidAccessToken
	case errors.Is(err, common.ErrorNotFound):
		return auth.Identity{}, msgUserNotFound
	default:
		s.logger.Error(ctx, "authentication failed", "err", err)
		return auth.Identity{}, msgAuthFailed
	}
}

func (s *Server) requireAuth(c *gin.Context) {
	id, msg := s.authenticate(c)
	if msg != "" {
		abortWithError(c, http.StatusUnauthorized, msg)
		return
	}

	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
	c.Next()
}

// optionalAuth attaches the caller's identity when a valid token is present
// and otherwise continues anonymously.
func (s *Server) optionalAuth(c *gin.Context) {
	if c.GetHeader(common.AuthorizationHeaderName) != "" {
		if id, msg := s.authenticate(c); msg == "" {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		}
	}
	c.Next()
}

// identity returns the caller attached by requireAuth.
func identity(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFrom(c.Request.Context())
	return id
}
