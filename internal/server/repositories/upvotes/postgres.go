package upvotes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM post_upvotes WHERE user_id = $1 AND post_id = $2)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		if dbx.IsInvalidText(err) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID, postID string) error {
	query := `
		INSERT INTO post_upvotes (user_id, post_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrAlreadyExists
		case dbx.IsForeignKeyViolation(err), dbx.IsInvalidText(err):
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	query := `
		DELETE FROM post_upvotes
		WHERE user_id = $1 AND post_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
