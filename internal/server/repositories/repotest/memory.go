// Package repotest provides an in-memory repomanager.RepositoryManager for
// tests. It enforces the same uniqueness and reference rules as the
// PostgreSQL schema, and lets a test inject a failure per operation.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/comments"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/communities"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/upvotes"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/users"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

type upvoteKey struct{ userID, postID string }

// Manager holds all tables in memory. The DBTX handed to the factories is
// ignored, so transactions are not isolated.
type Manager struct {
	mu sync.Mutex

	seq         int
	clock       time.Time
	users       map[string]*models.User
	sessions    map[string]*models.Session
	communities map[string]*models.Community
	posts       map[string]*models.Post
	comments    map[string]*models.Comment
	upvotes     map[upvoteKey]struct{}

	failures map[string]error
}

func NewManager() *Manager {
	return &Manager{
		clock:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:       make(map[string]*models.User),
		sessions:    make(map[string]*models.Session),
		communities: make(map[string]*models.Community),
		posts:       make(map[string]*models.Post),
		comments:    make(map[string]*models.Comment),
		upvotes:     make(map[upvoteKey]struct{}),
		failures:    make(map[string]error),
	}
}

// Fail makes the named operation (e.g. "users.GetRole") return err until
// cleared with a nil err.
func (m *Manager) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *Manager) failure(op string) error {
	return m.failures[op]
}

// next returns a fresh id and a creation time one second after the previous
// one, so ordering by time is deterministic.
func (m *Manager) next(prefix string) (string, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Second)
	return fmt.Sprintf("%s-%d", prefix, m.seq), m.clock
}

// SessionCount reports how many sessions are stored.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// UpvoteCount reports how many upvotes postID has.
func (m *Manager) UpvoteCount(postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upvoteCount(postID)
}

func (m *Manager) upvoteCount(postID string) int {
	n := 0
	for k := range m.upvotes {
		if k.postID == postID {
			n++
		}
	}
	return n
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return m.failure("migrations") }

func (m *Manager) Users(dbx.DBTX) users.Repository                 { return &userRepo{m} }
func (m *Manager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return &sessionRepo{m} }
func (m *Manager) Communities(dbx.DBTX) communities.Repository     { return &communityRepo{m} }
func (m *Manager) Posts(dbx.DBTX) posts.Repository                 { return &postRepo{m} }
func (m *Manager) Comments(dbx.DBTX) comments.Repository           { return &commentRepo{m} }
func (m *Manager) Upvotes(dbx.DBTX) upvotes.Repository             { return &upvoteRepo{m} }

// --- users ---

type userRepo struct{ m *Manager }

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
		if u.Username != nil && existing.Username != nil && *existing.Username == *u.Username {
			return nil, common.ErrAlreadyExists
		}
	}
	u.ID, u.CreatedAt = r.m.next("user")
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetRole(_ context.Context, id string) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("users.GetRole"); err != nil {
		return "", err
	}
	u, ok := r.m.users[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return u.Role, nil
}

func (r *userRepo) SetProfilePicture(_ context.Context, id string, key string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("users.SetProfilePicture"); err != nil {
		return err
	}
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.ProfilePicture = &key
	return nil
}

// --- sessions ---

type sessionRepo struct{ m *Manager }

func (r *sessionRepo) Create(_ context.Context, userID string, token string, expiresAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("refreshtokens.Create"); err != nil {
		return err
	}
	if _, ok := r.m.sessions[token]; ok {
		return common.ErrAlreadyExists
	}
	id, now := r.m.next("session")
	r.m.sessions[token] = &models.Session{ID: id, UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: now}
	return nil
}

func (r *sessionRepo) Find(_ context.Context, token string) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("refreshtokens.Find"); err != nil {
		return nil, err
	}
	s, ok := r.m.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *sessionRepo) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("refreshtokens.Delete"); err != nil {
		return err
	}
	delete(r.m.sessions, token)
	return nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("refreshtokens.DeleteExpired"); err != nil {
		return 0, err
	}
	var n int64
	for token, s := range r.m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(r.m.sessions, token)
			n++
		}
	}
	return n, nil
}

// --- communities ---

type communityRepo struct{ m *Manager }

func (r *communityRepo) postCount(id string) int {
	n := 0
	for _, p := range r.m.posts {
		if p.CommunityID == id {
			n++
		}
	}
	return n
}

func (r *communityRepo) List(_ context.Context) ([]models.Community, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("communities.List"); err != nil {
		return nil, err
	}
	result := make([]models.Community, 0, len(r.m.communities))
	for _, c := range r.m.communities {
		cp := *c
		cp.Count.Posts = r.postCount(c.ID)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count.Posts != result[j].Count.Posts {
			return result[i].Count.Posts > result[j].Count.Posts
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *communityRepo) Create(_ context.Context, c *models.Community) (*models.Community, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("communities.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.m.communities {
		if existing.Name == c.Name {
			return nil, common.ErrAlreadyExists
		}
	}
	c.ID, c.CreatedAt = r.m.next("community")
	cp := *c
	r.m.communities[c.ID] = &cp
	return c, nil
}

func (r *communityRepo) GetByName(_ context.Context, name string) (*models.Community, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("communities.GetByName"); err != nil {
		return nil, err
	}
	for _, c := range r.m.communities {
		if c.Name == name {
			cp := *c
			cp.Count.Posts = r.postCount(c.ID)
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- posts ---

type postRepo struct{ m *Manager }

func (r *postRepo) project(p *models.Post, viewerID string) models.Post {
	cp := *p
	if u, ok := r.m.users[p.AuthorID]; ok {
		cp.Author = models.Author{ID: u.ID, Username: u.Username, Name: u.Name}
	}
	if c, ok := r.m.communities[p.CommunityID]; ok {
		cp.Community = models.CommunityRef{ID: c.ID, Name: c.Name}
	}
	cp.Count.Upvotes = r.m.upvoteCount(p.ID)
	cp.Count.Comments = 0
	for _, c := range r.m.comments {
		if c.PostID == p.ID {
			cp.Count.Comments++
		}
	}
	cp.Upvoted = nil
	if viewerID != "" {
		_, up := r.m.upvotes[upvoteKey{viewerID, p.ID}]
		cp.Upvoted = &up
	}
	return cp
}

func (r *postRepo) List(_ context.Context, communityID string, viewerID string) ([]models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("posts.List"); err != nil {
		return nil, err
	}
	result := make([]models.Post, 0)
	for _, p := range r.m.posts {
		if communityID != "" && p.CommunityID != communityID {
			continue
		}
		result = append(result, r.project(p, viewerID))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *postRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("posts.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.m.communities[p.CommunityID]; !ok {
		return nil, common.ErrorNotFound
	}
	stored := &models.Post{Title: p.Title, Content: p.Content, CommunityID: p.CommunityID, AuthorID: p.AuthorID}
	stored.ID, stored.CreatedAt = r.m.next("post")
	r.m.posts[stored.ID] = stored
	out := r.project(stored, p.AuthorID)
	return &out, nil
}

func (r *postRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("posts.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := r.project(p, "")
	return &out, nil
}

// --- comments ---

type commentRepo struct{ m *Manager }

func (r *commentRepo) withAuthor(c *models.Comment) models.Comment {
	cp := *c
	if u, ok := r.m.users[c.AuthorID]; ok {
		cp.Author = models.Author{ID: u.ID, Username: u.Username, Name: u.Name}
	}
	return cp
}

func (r *commentRepo) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("comments.ListByPost"); err != nil {
		return nil, err
	}
	var top []models.Comment
	replies := make(map[string][]models.Comment)
	for _, c := range r.m.comments {
		if c.PostID != postID {
			continue
		}
		if c.ParentID == nil {
			top = append(top, r.withAuthor(c))
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], r.withAuthor(c))
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].CreatedAt.After(top[j].CreatedAt) })
	result := make([]models.Comment, 0, len(top))
	for _, c := range top {
		rs := replies[c.ID]
		sort.Slice(rs, func(i, j int) bool { return rs[i].CreatedAt.Before(rs[j].CreatedAt) })
		c.Replies = append([]models.Comment{}, rs...)
		result = append(result, c)
	}
	return result, nil
}

func (r *commentRepo) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("comments.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.m.posts[c.PostID]; !ok {
		return nil, common.ErrorNotFound
	}
	if c.ParentID != nil {
		if _, ok := r.m.comments[*c.ParentID]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	stored := &models.Comment{Content: c.Content, PostID: c.PostID, AuthorID: c.AuthorID, ParentID: c.ParentID}
	stored.ID, stored.CreatedAt = r.m.next("comment")
	r.m.comments[stored.ID] = stored
	out := r.withAuthor(stored)
	return &out, nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("comments.GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.m.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

// --- upvotes ---

type upvoteRepo struct{ m *Manager }

func (r *upvoteRepo) Exists(_ context.Context, userID, postID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("upvotes.Exists"); err != nil {
		return false, err
	}
	_, ok := r.m.upvotes[upvoteKey{userID, postID}]
	return ok, nil
}

func (r *upvoteRepo) Create(_ context.Context, userID, postID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("upvotes.Create"); err != nil {
		return err
	}
	if _, ok := r.m.posts[postID]; !ok {
		return common.ErrorNotFound
	}
	k := upvoteKey{userID, postID}
	if _, ok := r.m.upvotes[k]; ok {
		return common.ErrAlreadyExists
	}
	r.m.upvotes[k] = struct{}{}
	return nil
}

func (r *upvoteRepo) Delete(_ context.Context, userID, postID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failure("upvotes.Delete"); err != nil {
		return false, err
	}
	k := upvoteKey{userID, postID}
	if _, ok := r.m.upvotes[k]; !ok {
		return false, nil
	}
	delete(r.m.upvotes, k)
	return true, nil
}
