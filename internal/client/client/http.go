package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

var _ Client = (*APIClient)(nil)

// APIClient talks to the forum REST API. Authenticated calls carry the
// stored access token; a 401 triggers one refresh and a single replay.
type APIClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	conn   *grpc.ClientConn
	health healthpb.HealthClient

	refreshMu sync.Mutex
}

// NewAPIClient builds a client for baseURL. When grpcAddr is non-empty Ping
// uses the gRPC health service there, otherwise it calls GET /health.
func NewAPIClient(baseURL, grpcAddr string, tokens TokenStore, timeout time.Duration) (*APIClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}

	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}

	if grpcAddr != "" {
		conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		c.conn = conn
		c.health = healthpb.NewHealthClient(conn)
	}

	return c, nil
}

func (c *APIClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *APIClient) Ping(ctx context.Context) error {
	if c.health == nil {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.do(ctx, http.MethodGet, "/health", nil, &body, authNone); err != nil {
			return err
		}
		if body.Status != "ok" {
			return ErrUnavailable
		}
		return nil
	}

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (c *APIClient) Signup(ctx context.Context, email, password, name string, username *string) (*models.AuthResult, error) {
	req := map[string]any{"email": email, "password": password, "name": name}
	if username != nil {
		req["username"] = *username
	}

	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &res, authNone); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	req := map[string]string{"email": email, "password": password}

	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &res, authNone); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout revokes the stored refresh token on the server. Local tokens are
// left for the caller to clear.
func (c *APIClient) Logout(ctx context.Context) error {
	_, refresh, err := c.tokens.Tokens(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{"refreshToken": refresh}, nil, authNone)
}

func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &u, authRequired); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *APIClient) RequestAvatarUpload(ctx context.Context) (*models.AvatarUpload, error) {
	var up models.AvatarUpload
	if err := c.do(ctx, http.MethodPost, "/api/users/me/avatar", nil, &up, authRequired); err != nil {
		return nil, err
	}
	return &up, nil
}

func (c *APIClient) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var list []models.Community
	if err := c.do(ctx, http.MethodGet, "/api/communities", nil, &list, authNone); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) CreateCommunity(ctx context.Context, name string, description *string) (*models.Community, error) {
	req := map[string]any{"name": name}
	if description != nil {
		req["description"] = *description
	}

	var community models.Community
	if err := c.do(ctx, http.MethodPost, "/api/communities", req, &community, authRequired); err != nil {
		return nil, err
	}
	return &community, nil
}

func (c *APIClient) GetCommunity(ctx context.Context, name string) (*models.Community, error) {
	var community models.Community
	if err := c.do(ctx, http.MethodGet, "/api/communities/"+url.PathEscape(name), nil, &community, authNone); err != nil {
		return nil, err
	}
	return &community, nil
}

// ListPosts sends the access token when there is one so the server can fill
// in the per-viewer upvoted flag.
func (c *APIClient) ListPosts(ctx context.Context, communityID string) ([]models.Post, error) {
	path := "/api/posts"
	if communityID != "" {
		path += "?" + url.Values{"communityId": {communityID}}.Encode()
	}

	var list []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &list, authOptional); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) CreatePost(ctx context.Context, title, content, communityID string) (*models.Post, error) {
	req := map[string]string{"title": title, "content": content, "communityId": communityID}

	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &p, authRequired); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *APIClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &p, authNone); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *APIClient) ToggleUpvote(ctx context.Context, postID string) (bool, error) {
	var res struct {
		Upvoted bool `json:"upvoted"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/upvote", nil, &res, authRequired); err != nil {
		return false, err
	}
	return res.Upvoted, nil
}

func (c *APIClient) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var list []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/comments/post/"+url.PathEscape(postID), nil, &list, authNone); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) CreateComment(ctx context.Context, postID, content string, parentID *string) (*models.Comment, error) {
	req := map[string]any{"postId": postID, "content": content}
	if parentID != nil {
		req["parentId"] = *parentID
	}

	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/api/comments", req, &comment, authRequired); err != nil {
		return nil, err
	}
	return &comment, nil
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

func (c *APIClient) do(ctx context.Context, method, path string, in, out any, mode authMode) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	var access, refresh string
	if mode != authNone {
		var err error
		if access, refresh, err = c.tokens.Tokens(ctx); err != nil {
			return err
		}
		if mode == authRequired && access == "" && refresh == "" {
			return ErrUnauthorized
		}
	}

	code, body, err := c.send(ctx, method, path, payload, access)
	if err != nil {
		return err
	}

	if code == http.StatusUnauthorized && mode == authRequired && refresh != "" {
		access, err = c.refresh(ctx, access, refresh)
		if err != nil {
			return err
		}
		if code, body, err = c.send(ctx, method, path, payload, access); err != nil {
			return err
		}
	}

	if code < 200 || code > 299 {
		return decodeError(code, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *APIClient) send(ctx context.Context, method, path string, payload []byte, access string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, data, nil
}

// refresh exchanges the refresh token for a new access token. If another
// call already refreshed past stale, the stored token is reused. A rejected
// refresh clears the local session.
func (c *APIClient) refresh(ctx context.Context, stale, refresh string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current, _, err := c.tokens.Tokens(ctx); err == nil && current != "" && current != stale {
		return current, nil
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return "", err
	}

	code, body, err := c.send(ctx, http.MethodPost, "/api/auth/refresh-token", payload, "")
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		if err := c.tokens.Clear(ctx); err != nil {
			return "", err
		}
		return "", ErrUnauthorized
	}

	var res struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.AccessToken == "" {
		return "", fmt.Errorf("decode refresh response: %w", errors.Join(err, ErrUnauthorized))
	}

	if err := c.tokens.SaveAccessToken(ctx, res.AccessToken); err != nil {
		return "", err
	}
	return res.AccessToken, nil
}

func decodeError(code int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		e.Error = http.StatusText(code)
	}
	return &APIError{Status: code, Message: e.Error}
}
