// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/rest"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/gophforum/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	httpServer *rest.Server
	grpcServer *gs.HealthServer
	pruner     *services.SessionPruner
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout)

	// sql.Open does not connect; reachability is reported by the health probe
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.Config{
		Secret:     []byte(c.SecretKey),
		AccessTTL:  c.AccessTokenValidityDuration,
		RefreshTTL: c.RefreshTokenValidityDuration,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	gin.SetMode(gin.ReleaseMode)
	httpServer := rest.NewServer(c, logger, rest.Services{
		Users:       services.NewUserService(db, rm, tokens),
		Communities: services.NewCommunityService(db, rm),
		Posts:       services.NewPostService(db, rm),
		Comments:    services.NewCommentService(db, rm),
		Avatars:     services.NewAvatarService(db, rm, c),
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		httpServer:  httpServer,
		grpcServer:  gs.NewHealthServer(c.GRPCAddr, logger, db.PingContext),
		pruner:      services.NewSessionPruner(db, rm, c.SessionPruneInterval, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies migrations and serves HTTP and gRPC until a signal arrives,
// ctx is cancelled, or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server failed", "err", err)
			cancelFunc()
		}
	}()

	go func() {
		defer wg.Done()
		if err := app.grpcServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server failed", "err", err)
			cancelFunc()
		}
	}()

	go func() {
		defer wg.Done()
		app.pruner.Run(ctx)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
