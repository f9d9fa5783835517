package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TokenStore supplies the credential pair attached to outbound requests and
// receives the replacement pair after a silent refresh. The session package
// provides the file-backed implementation.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
}

// Client is the single shared transport for the Rosarium API. It attaches
// credentials, tracks in-flight requests, and renews the session on 401s
// with a single-flight refresh shared by every concurrent caller.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenStore
	activity  *Activity
	log       *zap.Logger

	onSessionExpired func()

	refreshMu  sync.Mutex
	refreshing bool
	waiters    []chan error
}

const (
	defaultUserAgent = "rosarium/0.1"
	requestTimeout   = 15 * time.Second
	maxBodyBytes     = 4 << 20

	refreshPath = "/token/refresh/"

	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"
)

// authPaths are the entry points of the session lifecycle itself. A 401
// from one of them rejects immediately; routing it into the refresh
// protocol would loop on the auth endpoints.
var authPaths = map[string]bool{
	"/token/":    true,
	"/register/": true,
	refreshPath:  true,
	"/logout/":   true,
}

// NewClient builds a Client for the given API base URL. A nil logger
// disables request logging.
func NewClient(base string, tokens TokenStore, logger *zap.Logger) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
		activity:  NewActivity(),
		log:       logger,
	}, nil
}

// Activity exposes the in-flight request counter for subscribers.
func (c *Client) Activity() *Activity {
	return c.activity
}

// SetSessionExpiredHandler registers the callback invoked when a refresh
// fails because the refresh token itself has expired. The application wires
// this to drop back to the login screen.
func (c *Client) SetSessionExpiredHandler(fn func()) {
	c.onSessionExpired = fn
}

// Do issues a JSON request. body is marshalled when non-nil; dest is
// decoded into when non-nil and the response carries a body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	var payload []byte
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
		contentType = "application/json"
	}
	return c.doWithRetry(ctx, method, path, query, contentType, payload, dest)
}

// Upload issues a multipart POST carrying form fields plus one file part.
// Used for rose photo uploads, which the API accepts only as multipart.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, dest any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return fmt.Errorf("write form field %q: %w", name, err)
		}
	}
	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}
	return c.doWithRetry(ctx, http.MethodPost, path, nil, w.FormDataContentType(), buf.Bytes(), dest)
}

// doWithRetry runs the 401 protocol around a single send: renew the
// session at most once, then re-issue the original request exactly once.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, dest any) error {
	err := c.send(ctx, method, path, query, contentType, body, dest)
	if !IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	if authPaths[path] {
		return err
	}
	if c.tokens == nil || c.tokens.RefreshToken() == "" {
		// Unauthenticated callers have no session to renew.
		return err
	}
	if rerr := c.renewSession(ctx); rerr != nil {
		return &Error{Kind: KindRefreshFailed, Message: MessageFrom(rerr), cause: rerr}
	}
	return c.send(ctx, method, path, query, contentType, body, dest)
}

// renewSession coordinates the shared refresh. The first caller becomes the
// initiator; everyone else suspends on the waiter queue and observes the
// initiator's outcome. The queue drains in enqueue order with a uniform
// result, never a mix.
func (c *Client) renewSession(ctx context.Context) error {
	c.refreshMu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.refreshMu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.refreshMu.Unlock()

	err := c.refreshTokens(ctx)

	c.refreshMu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.refreshMu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}

	if err != nil && tokenExpired(err) && c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return err
}

func (c *Client) refreshTokens(ctx context.Context) error {
	request := map[string]string{"refresh": c.tokens.RefreshToken()}
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}
	var payload struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := c.send(ctx, http.MethodPost, refreshPath, nil, "application/json", body, &payload); err != nil {
		c.log.Warn("token refresh failed", zap.Error(err))
		return err
	}
	refresh := payload.Refresh
	if refresh == "" {
		// The server rotates refresh tokens only sometimes; keep the
		// current one when the response omits it.
		refresh = c.tokens.RefreshToken()
	}
	c.log.Debug("session refreshed")
	return c.tokens.SetTokens(payload.Access, refresh)
}

// send performs one HTTP round trip with no retry logic. The in-flight
// counter is balanced by the deferred Done on every exit path.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, dest any) error {
	c.activity.Add()
	defer c.activity.Done()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if access := c.tokens.AccessToken(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}
	if mutating(method) {
		if token := c.csrfToken(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 400 {
		return httpError(resp.StatusCode, data)
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpoint joins path onto the base URL, preserving any base path prefix
// (the API commonly lives under /api).
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// csrfToken returns the anti-forgery token the server scoped to our origin,
// if one has been set.
func (c *Client) csrfToken() string {
	if c.http.Jar == nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("api base URL is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
