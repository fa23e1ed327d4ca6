package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/client/config"
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	signupEmail, signupName, signupPassword string
	signupUsername                          *string
	loginEmail, loginPassword               string
	user                                    *models.User
	err                                     error

	logoutCalled bool
	avatarType   string
	avatarData   []byte
	pingCtxHasDL bool
	closed       bool
}

func (f *fakeAuth) Signup(_ context.Context, email, password, name string, username *string) (*models.User, error) {
	f.signupEmail, f.signupPassword, f.signupName, f.signupUsername = email, password, name, username
	return f.user, f.err
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.User, error) {
	f.loginEmail, f.loginPassword = email, password
	return f.user, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.err
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) { return f.user, f.err }

func (f *fakeAuth) UploadAvatar(_ context.Context, contentType string, image []byte) (string, error) {
	f.avatarType, f.avatarData = contentType, image
	return "avatars/user-1/abc", f.err
}

func (f *fakeAuth) Ping(ctx context.Context) error {
	_, f.pingCtxHasDL = ctx.Deadline()
	return f.err
}

func (f *fakeAuth) Close(context.Context) error {
	f.closed = true
	return nil
}

type fakeForum struct {
	communities []models.Community
	posts       []models.Post
	comments    []models.Comment
	upvoted     bool
	err         error

	lastCommunity, lastTitle, lastContent, lastParent, lastDescription string
}

func (f *fakeForum) Communities(context.Context) ([]models.Community, error) {
	return f.communities, f.err
}

func (f *fakeForum) CreateCommunity(_ context.Context, name, description string) (*models.Community, error) {
	f.lastDescription = description
	return &models.Community{ID: "community-9", Name: name}, f.err
}

func (f *fakeForum) Community(_ context.Context, name string) (*models.Community, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Community{ID: "community-1", Name: name}, nil
}

func (f *fakeForum) Posts(_ context.Context, community string) ([]models.Post, error) {
	f.lastCommunity = community
	return f.posts, f.err
}

func (f *fakeForum) CreatePost(_ context.Context, community, title, content string) (*models.Post, error) {
	f.lastCommunity, f.lastTitle, f.lastContent = community, title, content
	return &models.Post{ID: "post-9"}, f.err
}

func (f *fakeForum) Post(_ context.Context, id string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: id, Title: "Hello", Content: "World"}, nil
}

func (f *fakeForum) ToggleUpvote(context.Context, string) (bool, error) { return f.upvoted, f.err }

func (f *fakeForum) Comments(context.Context, string) ([]models.Comment, error) {
	return f.comments, f.err
}

func (f *fakeForum) Comment(_ context.Context, _, content, parentID string) (*models.Comment, error) {
	f.lastContent, f.lastParent = content, parentID
	return &models.Comment{ID: "comment-9"}, f.err
}

type harness struct {
	auth   *fakeAuth
	forum  *fakeForum
	opened int
	cfg    *config.Config
}

// run executes args against fakes, feeding stdin to prompts, and returns
// everything the command printed.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(BuildInfo{Version: "1.2.3"}, func(_ context.Context, cfg *config.Config) (*App, error) {
		h.opened++
		h.cfg = cfg
		return &App{
			authService:  h.auth,
			forumService: h.forum,
			reader:       bufio.NewReader(strings.NewReader(stdin)),
		}, nil
	})

	var out bytes.Buffer
	c.Command().SetOut(&out)
	c.Command().SetErr(io.Discard)

	err := c.Execute(context.Background(), args)
	return out.String(), err
}

func newHarness() *harness {
	return &harness{auth: &fakeAuth{}, forum: &fakeForum{}}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func requireContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		require.Contains(t, out, p)
	}
}
