// Package api is the authenticated HTTP/JSON transport to the suggestion
// backend.
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

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/metrics"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/tokenstore"
)

const (
	requestIDHeader = "X-Request-ID"
	refreshPath     = "/auth/refresh"
	maxBodyBytes    = 4 << 20
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
	UserAgent string
}

type Option func(*Client)

func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransport replaces the innermost transport (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	tokens    tokenstore.Store
	logger    *logging.Logger
	metrics   *metrics.Collectors
	base      http.RoundTripper

	refreshMu sync.Mutex
}

func New(cfg Config, tokens tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		tokens:    tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default
	}
	c.logger = c.logger.WithComponent("api")

	rt := c.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	if c.metrics != nil {
		rt = c.metrics.InstrumentRoundTripper(rt)
	}
	rt = &loggingTransport{next: rt, logger: c.logger}
	if cfg.RateLimit > 0 {
		rt = newRateLimitTransport(rt, cfg.RateLimit, cfg.RateBurst)
	}

	c.http = &http.Client{Transport: rt, Timeout: cfg.Timeout}
	return c
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// GetList fetches a collection that the backend returns either as a bare
// array or wrapped in an object under one of the envelope keys.
func (c *Client) GetList(ctx context.Context, path string, query url.Values, out any, envelopes ...string) error {
	var raw json.RawMessage
	if err := c.Get(ctx, path, query, &raw); err != nil {
		return err
	}
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		for _, key := range envelopes {
			if v := list.Get(key); v.IsArray() {
				list = v
				break
			}
		}
	}
	if !list.IsArray() {
		return fmt.Errorf("%w: %s", ErrUnexpectedShape, path)
	}
	if err := json.Unmarshal([]byte(list.Raw), out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	access := c.accessToken(ctx)
	status, respBody, err := c.send(ctx, method, path, query, payload, access)
	if err != nil {
		return err
	}

	_, pinned := ctx.Value(tokenKey{}).(string)
	if status == http.StatusUnauthorized && access != "" && !pinned && !strings.HasPrefix(path, "/auth/") {
		if rerr := c.refresh(ctx, access); rerr != nil {
			c.logger.Warn("Session refresh failed, clearing tokens", map[string]interface{}{"error": rerr.Error()})
			if cerr := c.tokens.Clear(ctx); cerr != nil {
				c.logger.Error("Failed to clear tokens", map[string]interface{}{"error": cerr.Error()})
			}
			return newError(status, respBody)
		}
		status, respBody, err = c.send(ctx, method, path, query, payload, c.accessToken(ctx))
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return newError(status, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, access string) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	if len(respBody) > maxBodyBytes {
		return 0, nil, fmt.Errorf("%s %s: %w (over %d bytes)", method, path, ErrResponseTooLarge, maxBodyBytes)
	}
	return resp.StatusCode, respBody, nil
}

type tokenKey struct{}

// WithToken makes requests issued with ctx carry token instead of the
// stored one. Such requests are never refreshed.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func (c *Client) accessToken(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	pair, err := c.tokens.Load(ctx)
	if err != nil {
		return ""
	}
	return pair.AccessToken
}

// refresh exchanges the stored refresh token for a new pair. Concurrent
// callers that saw the same stale access token share one refresh.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if pair.AccessToken != stale {
		return nil
	}
	if pair.RefreshToken == "" {
		return errors.New("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
	if err != nil {
		return err
	}
	status, body, err := c.send(ctx, http.MethodPost, refreshPath, nil, payload, "")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return newError(status, body)
	}

	var next models.TokenPair
	if err := json.Unmarshal(body, &next); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	if next.AccessToken == "" {
		return fmt.Errorf("%w: refresh response without access token", ErrUnexpectedShape)
	}
	if next.RefreshToken == "" {
		next.RefreshToken = pair.RefreshToken
	}
	return c.tokens.Save(ctx, next)
}
