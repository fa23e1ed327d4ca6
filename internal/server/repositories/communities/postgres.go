package communities

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

const selectCommunity = `
	SELECT c.id, c.name, c.description, c.creator_id, c.created_at,
	       (SELECT COUNT(*) FROM posts p WHERE p.community_id = c.id) AS post_count
	FROM communities c
`

func (r *PostgresRepository) List(ctx context.Context) ([]models.Community, error) {
	query := selectCommunity + `
	ORDER BY post_count DESC, c.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Community, 0)
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.CreatedAt, &c.Count.Posts); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Community) (*models.Community, error) {
	query := `
		INSERT INTO communities (name, description, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.CreatorID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Community, error) {
	query := selectCommunity + `
	WHERE c.name = $1
	`

	var c models.Community
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.CreatedAt, &c.Count.Posts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}
