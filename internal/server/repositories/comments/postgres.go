package comments

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

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `
		SELECT cm.id, cm.content, cm.post_id, cm.author_id, cm.parent_id, cm.created_at,
		       u.id, u.username, u.name
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC
	`

	result := make([]models.Comment, 0)

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return result, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var all []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.ParentID, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.Name); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return thread(all), nil
}

// thread groups replies under their parents. Input is oldest first; top-level
// comments come out newest first with replies left in input order.
func thread(all []models.Comment) []models.Comment {
	replies := make(map[string][]models.Comment)
	for _, c := range all {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	result := make([]models.Comment, 0, len(all)-countReplies(replies))
	for i := len(all) - 1; i >= 0; i-- {
		c := all[i]
		if c.ParentID != nil {
			continue
		}
		c.Replies = replies[c.ID]
		if c.Replies == nil {
			c.Replies = []models.Comment{}
		}
		result = append(result, c)
	}
	return result
}

func countReplies(m map[string][]models.Comment) int {
	n := 0
	for _, r := range m {
		n += len(r)
	}
	return n
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := `
		WITH ins AS (
			INSERT INTO comments (content, post_id, author_id, parent_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, content, post_id, author_id, parent_id, created_at
		)
		SELECT ins.id, ins.content, ins.post_id, ins.author_id, ins.parent_id, ins.created_at,
		       u.id, u.username, u.name
		FROM ins
		JOIN users u ON u.id = ins.author_id
	`

	out := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, c.Content, c.PostID, c.AuthorID, c.ParentID).
		Scan(&out.ID, &out.Content, &out.PostID, &out.AuthorID, &out.ParentID, &out.CreatedAt,
			&out.Author.ID, &out.Author.Username, &out.Author.Name)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, content, post_id, author_id, parent_id, created_at
		FROM comments
		WHERE id = $1
	`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
