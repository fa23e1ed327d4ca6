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

type CommunityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommunityService(db *sql.DB, m repomanager.RepositoryManager) *CommunityService {
	return &CommunityService{db: db, repomanager: m}
}

func (s *CommunityService) List(ctx context.Context) ([]models.Community, error) {
	list, err := s.repomanager.Communities(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing communities: %w", err)
	}
	return list, nil
}

// Create makes a community owned by creatorID. A blank name yields
// common.ErrValidation; a taken one common.ErrAlreadyExists.
func (s *CommunityService) Create(ctx context.Context, name string, description *string, creatorID string) (*models.Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrValidation
	}

	c, err := s.repomanager.Communities(s.db).Create(ctx, &models.Community{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating community: %w", err)
	}
	return c, nil
}

func (s *CommunityService) GetByName(ctx context.Context, name string) (*models.Community, error) {
	c, err := s.repomanager.Communities(s.db).GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading community: %w", err)
	}
	return c, nil
}
