package api

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

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration

	mu       sync.Mutex
	tokens   models.TokenPair
	onTokens func(models.TokenPair)
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTokenListener is called whenever the token pair changes, so the
// caller can persist it.
func WithTokenListener(fn func(models.TokenPair)) Option {
	return func(h *HTTPClient) { h.onTokens = fn }
}

func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Tokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *HTTPClient) SetTokens(t models.TokenPair) {
	c.mu.Lock()
	c.tokens = t
	fn := c.onTokens
	c.mu.Unlock()

	if fn != nil {
		fn(t)
	}
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) (*models.TokenPair, error) {
	var tp models.TokenPair
	if err := c.send(ctx, http.MethodPost, "/api/auth/register", in, &tp, false); err != nil {
		return nil, err
	}
	c.SetTokens(tp)
	return &tp, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	var tp models.TokenPair
	body := models.LoginInput{Email: email, Password: password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", body, &tp, false); err != nil {
		return nil, err
	}
	c.SetTokens(tp)
	return &tp, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/api/health", nil, nil, false)
}

func (c *HTTPClient) List(ctx context.Context, collection string, query url.Values, out any) error {
	path := "/api/" + collection
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Create(ctx context.Context, collection string, body, out any) error {
	return c.do(ctx, http.MethodPost, "/api/"+collection, body, out)
}

func (c *HTTPClient) Update(ctx context.Context, collection, id string, body, out any) error {
	return c.do(ctx, http.MethodPut, resourcePath(collection, id), body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(collection, id), nil, nil)
}

func (c *HTTPClient) MarkReminderNotified(ctx context.Context, id string) (*models.Reminder, error) {
	var r models.Reminder
	path := resourcePath(common.CollectionReminders, id) + "/notified"
	if err := c.do(ctx, http.MethodPatch, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (c *HTTPClient) BackupUploadURL(ctx context.Context) (string, string, error) {
	var resp presignResponse
	if err := c.do(ctx, http.MethodPost, "/api/backups/upload-url", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (c *HTTPClient) BackupDownloadURL(ctx context.Context, key string) (string, error) {
	var resp presignResponse
	if err := c.do(ctx, http.MethodPost, "/api/backups/download-url", presignResponse{Key: key}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// do sends an authenticated request, refreshing the access token once when
// the server reports it expired.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	err := c.send(ctx, method, path, body, out, true)
	if err == nil || !isExpired(err) {
		return err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		return err
	}
	return c.send(ctx, method, path, body, out, true)
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	rt := c.Tokens().RefreshToken
	if rt == "" {
		return ErrUnauthorized
	}

	var tp models.TokenPair
	body := map[string]string{"refresh_token": rt}
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", body, &tp, false); err != nil {
		return err
	}
	c.SetTokens(tp)
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if tok := c.Tokens().AccessToken; tok != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func decodeError(code int, raw []byte) error {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		eb.Error = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: code, Message: eb.Error, Fields: eb.Fields}
}

func isExpired(err error) bool {
	var se *StatusError
	return errors.As(err, &se) &&
		se.Code == http.StatusUnauthorized &&
		se.Message == common.ErrTokenExpired.Error()
}

// resourcePath maps a collection entity to its REST path. The profile lives
// at a fixed path; settings are addressed by user id.
func resourcePath(collection, id string) string {
	if collection == common.CollectionUsers {
		return "/api/user/profile"
	}
	return "/api/" + collection + "/" + url.PathEscape(id)
}
