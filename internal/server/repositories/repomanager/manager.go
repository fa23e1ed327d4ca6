package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/comments"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/communities"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/upvotes"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can run
// several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Communities(db dbx.DBTX) communities.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Upvotes(db dbx.DBTX) upvotes.Repository
}
