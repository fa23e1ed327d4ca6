package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophforum/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// MetadataTokenStore keeps the session tokens in the local metadata table.
type MetadataTokenStore struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
}

func NewMetadataTokenStore(db *sql.DB) *MetadataTokenStore {
	return &MetadataTokenStore{
		db:   db,
		repo: func(tx dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(tx) },
	}
}

func (s *MetadataTokenStore) Tokens(ctx context.Context) (string, string, error) {
	r := s.repo(s.db)

	access, err := r.Get(ctx, keyAccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := r.Get(ctx, keyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return string(access), string(refresh), nil
}

// SaveTokens replaces both tokens atomically.
func (s *MetadataTokenStore) SaveTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return r.Set(ctx, keyRefreshToken, []byte(refresh))
	})
}

func (s *MetadataTokenStore) SaveAccessToken(ctx context.Context, access string) error {
	return s.repo(s.db).Set(ctx, keyAccessToken, []byte(access))
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyAccessToken, keyRefreshToken)
}

// MemoryTokenStore holds tokens for the lifetime of the process only.
type MemoryTokenStore struct {
	access, refresh string
}

func (m *MemoryTokenStore) Tokens(context.Context) (string, string, error) {
	return m.access, m.refresh, nil
}

func (m *MemoryTokenStore) SaveTokens(_ context.Context, access, refresh string) error {
	m.access, m.refresh = access, refresh
	return nil
}

func (m *MemoryTokenStore) SaveAccessToken(_ context.Context, access string) error {
	m.access = access
	return nil
}

func (m *MemoryTokenStore) Clear(context.Context) error {
	m.access, m.refresh = "", ""
	return nil
}
