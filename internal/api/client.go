// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the furnace analytics backend.
//
// Two query endpoints exist: chat returns text, SQL, and rows; dual-query
// additionally returns chart specifications, document images, and
// retrieval scores. Errors are split into three families so the UI can
// phrase them differently: auth (sentinel errors), logical (*QueryError,
// the server answered but refused the question), and transport
// (everything else).
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
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/logger"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

// Endpoint paths on the backend.
const (
	chatPath      = "/api/chatbot/chat/"
	dualQueryPath = "/api/chatbot/dual-query/"
	schemaPath    = "/api/chatbot/schema/"
	healthPath    = "/api/chatbot/health/"
)

const (
	// DefaultTimeout bounds each request. Long analytical questions can
	// take minutes on the server side; requests are still never unbounded.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries applies to the idempotent GET endpoints only.
	// Queries are never retried automatically; a duplicate question costs
	// backend compute and clutters the audit log.
	DefaultMaxRetries = 2

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize caps response bodies. Large result sets are capped
	// server-side well below this; anything bigger is a misbehaving peer.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrUnauthenticated indicates the backend rejected our credentials.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates valid credentials without query permission.
	ErrForbidden = errors.New("access denied")

	// ErrRateLimited indicates the client-side rate limit was hit with a
	// context that could not wait.
	ErrRateLimited = errors.New("rate limited")
)

// sharedHTTPClient pools connections across all requests. Per-request
// deadlines come from contexts, not a client-level timeout.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the analytics backend.
type Client struct {
	baseURL      string
	assetBaseURL string
	token        string
	timeout      time.Duration
	maxRetries   int
	httpClient   *http.Client
	limiter      *rate.Limiter
	log          *zap.Logger
}

// New creates a client from configuration.
func New(cfg *config.Config) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.API.BaseURL, "/"),
		assetBaseURL: strings.TrimRight(cfg.API.AssetBaseURL, "/"),
		token:        cfg.API.Token,
		timeout:      time.Duration(cfg.API.TimeoutSecs) * time.Second,
		maxRetries:   cfg.API.MaxRetries,
		httpClient:   sharedHTTPClient,
		log:          logger.L().Named("api"),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.assetBaseURL == "" {
		c.assetBaseURL = c.baseURL
	}
	if n := cfg.API.RateLimitPerMin; n > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
	}
	return c
}

// WithHTTPClient overrides the HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveAssetURL joins a server-relative image path against the asset
// base URL. Absolute URLs pass through unchanged.
func (c *Client) ResolveAssetURL(ref model.ImageRef) string {
	if strings.HasPrefix(ref.Path, "http://") || strings.HasPrefix(ref.Path, "https://") {
		return ref.Path
	}
	return c.assetBaseURL + "/" + strings.TrimLeft(ref.Path, "/")
}

// =============================================================================
// QUERY ENDPOINTS
// =============================================================================

// Chat asks a question through the plain chat endpoint. The answer carries
// text, SQL, and rows but no chart or images.
func (c *Client) Chat(ctx context.Context, question string, mode Mode) (*QueryResult, error) {
	return c.query(ctx, chatPath, question, mode)
}

// DualQuery asks a question through the dual-query endpoint, which routes
// between SQL and document retrieval and returns the full artifact set.
func (c *Client) DualQuery(ctx context.Context, question string, mode Mode) (*QueryResult, error) {
	return c.query(ctx, dualQueryPath, question, mode)
}

func (c *Client) query(ctx context.Context, path, question string, mode Mode) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &QueryError{Message: "question is empty"}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	reqBody := queryRequest{Question: question}
	if mode != ModeAuto && mode != "" {
		reqBody.Mode = string(mode)
	}

	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return nil, err
	}

	var env queryEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		c.log.Warn("query refused",
			zap.String("path", path),
			zap.String("error", env.Error))
		return nil, &QueryError{Message: env.Error}
	}

	c.log.Info("query ok",
		zap.String("path", path),
		zap.String("mode", string(mode)),
		zap.Int("rows", env.RowCount),
		zap.Duration("elapsed", time.Since(start)))
	return env.toResult(), nil
}

// =============================================================================
// STATUS ENDPOINTS
// =============================================================================

// Health checks backend liveness. Transport failures come back as a
// degraded status rather than an error so callers can show them inline.
func (c *Client) Health(ctx context.Context) *HealthStatus {
	body, err := c.doWithRetry(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return &HealthStatus{Status: "error", Error: err.Error()}
	}
	var hs HealthStatus
	if err := json.Unmarshal(body, &hs); err != nil {
		return &HealthStatus{Status: "error", Error: err.Error()}
	}
	return &hs
}

// Schema fetches the queryable table descriptions.
func (c *Client) Schema(ctx context.Context) (*SchemaInfo, error) {
	body, err := c.doWithRetry(ctx, http.MethodGet, schemaPath, nil)
	if err != nil {
		return nil, err
	}
	var si SchemaInfo
	if err := json.Unmarshal(body, &si); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return &si, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs a single request with the client timeout applied on top of
// the caller's context.
func (c *Client) do(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// doWithRetry retries idempotent requests on transport errors and 5xx,
// with exponential backoff.
func (c *Client) doWithRetry(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var lastErr error
	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, transportError(ctx.Err())
			case <-time.After(retryBaseDelay * time.Duration(1<<(attempt-1))):
			}
		}
		body, err := c.do(ctx, method, path, reqBody)
		if err == nil {
			return body, nil
		}
		lastErr = err
		// Auth and logical failures will not improve on retry.
		var apiErr *APIError
		if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return nil, err
		}
		c.log.Debug("retrying request",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

// handleResponse maps status codes to the error taxonomy and reads the
// body with a size cap.
func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg := errorFromBody(body)
		c.log.Warn("http error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, transportError(err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromBody pulls the server's error message out of a failure body.
func errorFromBody(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return ""
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "metalquery/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// transportError normalizes connection and deadline failures into
// messages the UI can show directly.
func transportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timeout: %w", err)
	case errors.Is(err, context.Canceled):
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("request timeout: %w", err)
	}
	return fmt.Errorf("connection failed: %w", err)
}

// IsTimeout reports whether an error is a request timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
