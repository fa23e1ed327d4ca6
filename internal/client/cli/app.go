package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/client/config"
	"github.com/dmitrijs2005/gophforum/internal/client/services"

	_ "modernc.org/sqlite"
)

// App bundles the services a single CLI invocation works with.
type App struct {
	authService  services.AuthService
	forumService services.ForumService
	reader       *bufio.Reader
	closers      []func() error
}

// Opener builds an App for the given configuration. Tests substitute fakes.
type Opener func(ctx context.Context, c *config.Config) (*App, error)

// NewApp opens the local database, restores the stored session and connects
// the API client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	tokens := client.NewMetadataTokenStore(db)

	apiClient, err := client.NewAPIClient(c.ServerURL, c.GRPCAddr, tokens, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		authService:  services.NewAuthService(apiClient, tokens),
		forumService: services.NewForumService(apiClient),
		closers:      []func() error{apiClient.Close, db.Close},
	}, nil
}

// Close releases the API connection and the database, in that order.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
