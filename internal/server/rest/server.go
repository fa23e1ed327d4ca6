// Package rest exposes the forum over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Services bundles the business services the handlers call into.
type Services struct {
	Users       *services.UserService
	Communities *services.CommunityService
	Posts       *services.PostService
	Comments    *services.CommentService
	Avatars     *services.AvatarService
}

type Server struct {
	address string
	router  *gin.Engine
	logger  logging.Logger

	users       *services.UserService
	communities *services.CommunityService
	posts       *services.PostService
	comments    *services.CommentService
	avatars     *services.AvatarService

	allowedOrigins map[string]struct{}
	requestTimeout time.Duration
	now            func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, svc Services) *Server {
	s := &Server{
		address:        cfg.HTTPAddr,
		logger:         l.With("module", "http_server"),
		users:          svc.Users,
		communities:    svc.Communities,
		posts:          svc.Posts,
		comments:       svc.Comments,
		avatars:        svc.Avatars,
		allowedOrigins: make(map[string]struct{}, len(cfg.AllowedOrigins)),
		requestTimeout: cfg.RequestTimeout,
		now:            time.Now,
	}
	for _, o := range cfg.AllowedOrigins {
		s.allowedOrigins[o] = struct{}{}
	}

	s.router = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.accessLog, s.cors, s.timeout)

	r.GET("/health", s.health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/login", s.login)
	authGroup.POST("/refresh-token", s.refreshToken)
	authGroup.POST("/logout", s.logout)

	api.GET("/users/me", s.requireAuth, s.me)
	api.POST("/users/me/avatar", s.requireAuth, s.uploadAvatar)

	api.GET("/communities", s.listCommunities)
	api.POST("/communities", s.requireAuth, s.createCommunity)
	api.GET("/communities/:name", s.getCommunity)

	api.GET("/posts", s.optionalAuth, s.listPosts)
	api.POST("/posts", s.requireAuth, s.createPost)
	api.GET("/posts/:id", s.getPost)
	api.POST("/posts/:id/upvote", s.requireAuth, s.toggleUpvote)

	api.GET("/comments/post/:postId", s.listComments)
	api.POST("/comments", s.requireAuth, s.createComment)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}
