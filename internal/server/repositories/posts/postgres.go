package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// $1 is the viewer id (NULL for anonymous callers).
const selectPost = `
	SELECT p.id, p.title, p.content, p.community_id, p.author_id, p.created_at,
	       u.id, u.username, u.name,
	       c.id, c.name,
	       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comment_count,
	       (SELECT COUNT(*) FROM post_upvotes v WHERE v.post_id = p.id) AS upvote_count,
	       EXISTS (SELECT 1 FROM post_upvotes v WHERE v.post_id = p.id AND v.user_id = $1) AS upvoted
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN communities c ON c.id = p.community_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, bool, error) {
	var (
		p       models.Post
		upvoted bool
	)
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CommunityID, &p.AuthorID, &p.CreatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.Name,
		&p.Community.ID, &p.Community.Name,
		&p.Count.Comments, &p.Count.Upvotes, &upvoted)
	return &p, upvoted, err
}

func viewerArg(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

func (r *PostgresRepository) List(ctx context.Context, communityID string, viewerID string) ([]models.Post, error) {
	query := selectPost
	args := []any{viewerArg(viewerID)}
	if communityID != "" {
		query += `	WHERE p.community_id = $2
`
		args = append(args, communityID)
	}
	query += `	ORDER BY p.created_at DESC
`

	result := make([]models.Post, 0)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		// a malformed community id cannot match anything
		if dbx.IsInvalidText(err) {
			return result, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, upvoted, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if viewerID != "" {
			p.Upvoted = &upvoted
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, content, community_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, p.Title, p.Content, p.CommunityID, p.AuthorID).Scan(&id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.get(ctx, id, p.AuthorID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.get(ctx, id, "")
}

func (r *PostgresRepository) get(ctx context.Context, id string, viewerID string) (*models.Post, error) {
	query := selectPost + `	WHERE p.id = $2
`
	p, upvoted, err := scanPost(r.db.QueryRowContext(ctx, query, viewerArg(viewerID), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if viewerID != "" {
		p.Upvoted = &upvoted
	}
	return p, nil
}
