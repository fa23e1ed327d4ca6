package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
)

// SessionPruner periodically deletes sessions whose refresh token expired.
type SessionPruner struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	interval    time.Duration
	now         func() time.Time
	logger      logging.Logger
}

func NewSessionPruner(db *sql.DB, m repomanager.RepositoryManager, interval time.Duration, logger logging.Logger) *SessionPruner {
	return &SessionPruner{
		db:          db,
		repomanager: m,
		interval:    interval,
		now:         time.Now,
		logger:      logger.With("module", "pruner"),
	}
}

// PruneOnce deletes every session that expired before now.
func (p *SessionPruner) PruneOnce(ctx context.Context) (int64, error) {
	return p.repomanager.RefreshTokens(p.db).DeleteExpired(ctx, p.now())
}

// Run prunes on every tick until ctx is cancelled. A zero interval disables
// pruning and Run returns immediately.
func (p *SessionPruner) Run(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Info(ctx, "session pruning disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PruneOnce(ctx)
			if err != nil {
				p.logger.Error(ctx, "session prune failed", "err", err)
				continue
			}
			if n > 0 {
				p.logger.Info(ctx, "pruned expired sessions", "count", n)
			}
		}
	}
}
