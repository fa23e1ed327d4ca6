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

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// List returns posts newest first, optionally for one community. viewerID
// may be empty for anonymous callers.
func (s *PostService) List(ctx context.Context, communityID, viewerID string) ([]models.Post, error) {
	list, err := s.repomanager.Posts(s.db).List(ctx, communityID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return list, nil
}

// Create stores a post. Missing fields yield common.ErrValidation and an
// unknown community common.ErrorNotFound.
func (s *PostService) Create(ctx context.Context, title, content, communityID, authorID string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" || communityID == "" {
		return nil, common.ErrValidation
	}

	p, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Title:       title,
		Content:     content,
		CommunityID: communityID,
		AuthorID:    authorID,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return p, nil
}

// ToggleUpvote flips the caller's upvote on a post and reports the new state.
//
// The existence check and the write are separate statements, so two
// concurrent toggles may both see "absent". The unique (user, post)
// constraint lets only one insert through; the loser gets
// common.ErrAlreadyExists, which here means the post is upvoted, exactly what
// the caller asked for. A delete that removed nothing likewise still means
// "not upvoted". A missing post yields common.ErrorNotFound.
func (s *PostService) ToggleUpvote(ctx context.Context, userID, postID string) (bool, error) {
	repo := s.repomanager.Upvotes(s.db)

	exists, err := repo.Exists(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		return false, fmt.Errorf("error checking upvote: %w", err)
	}

	if exists {
		if _, err := repo.Delete(ctx, userID, postID); err != nil {
			return false, fmt.Errorf("error removing upvote: %w", err)
		}
		return false, nil
	}

	err = repo.Create(ctx, userID, postID)
	switch {
	case err == nil, errors.Is(err, common.ErrAlreadyExists):
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, err
	default:
		return false, fmt.Errorf("error adding upvote: %w", err)
	}
}
