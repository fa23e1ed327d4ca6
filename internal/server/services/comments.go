package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
)

// ErrInvalidParent is returned when a reply targets something other than a
// top-level comment of the same post.
var ErrInvalidParent = errors.New("invalid parent comment")

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// CreateCommentInput describes a new comment. ParentID is set for replies.
type CreateCommentInput struct {
	Content  string
	PostID   string
	ParentID *string
	AuthorID string
}

func (s *CommentService) List(ctx context.Context, postID string) ([]models.Comment, error) {
	list, err := s.repomanager.Comments(s.db).ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return list, nil
}

// Create stores a comment or a reply. Threads are one level deep: a reply's
// parent must itself be top level and belong to the same post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" || in.PostID == "" {
		return nil, common.ErrValidation
	}
	if in.ParentID != nil && *in.ParentID == "" {
		in.ParentID = nil
	}

	repo := s.repomanager.Comments(s.db)

	if in.ParentID != nil {
		parent, err := repo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, fmt.Errorf("error loading parent comment: %w", err)
		}
		if parent.PostID != in.PostID || parent.ParentID != nil {
			return nil, ErrInvalidParent
		}
	}

	c, err := repo.Create(ctx, &models.Comment{
		Content:  in.Content,
		PostID:   in.PostID,
		ParentID: in.ParentID,
		AuthorID: in.AuthorID,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}
