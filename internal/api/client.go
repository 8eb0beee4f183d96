// Package api is the typed REST client for the ChallengeMe backend. It owns
// transport configuration, bearer-token attachment, request identification,
// and the mapping of HTTP failures into the client error taxonomy. Callers
// work with models types and never see raw HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenProvider supplies the bearer credential attached to every request.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is a TokenProvider for a fixed credential.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Config parameterizes a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// Token supplies the bearer credential. Required.
	Token TokenProvider
	// Timeout bounds each request end to end. Zero means 10s.
	Timeout time.Duration
	// RetryMaxElapsed bounds the retry window for idempotent GETs.
	// Zero means 15s; negative disables retries.
	RetryMaxElapsed time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Client is a ChallengeMe API client. It is safe for concurrent use.
type Client struct {
	baseURL         string
	http            *http.Client
	token           TokenProvider
	retryMaxElapsed time.Duration
	logger          *zap.Logger
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retry := cfg.RetryMaxElapsed
	if retry == 0 {
		retry = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            &http.Client{Transport: transport, Timeout: timeout},
		token:           cfg.Token,
		retryMaxElapsed: retry,
		logger:          logger.Named("api"),
	}
}

// get performs a GET with bounded exponential retry. Only transport errors
// and 5xx responses are retried; 4xx responses are permanent.
func (c *Client) get(ctx context.Context, path string, result any) error {
	if c.retryMaxElapsed < 0 {
		return c.do(ctx, http.MethodGet, path, nil, result)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = c.retryMaxElapsed

	return backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, path, nil, result)
		if err == nil {
			return nil
		}
		var apiErr *Error
		if asError(err, &apiErr) && apiErr.Status < 500 {
			return backoff.Permanent(err)
		}
		c.logger.Debug("retrying GET", zap.String("path", path), zap.Error(err))
		return err
	}, backoff.WithContext(policy, ctx))
}

func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	return c.do(ctx, http.MethodPost, path, payload, result)
}

func (c *Client) put(ctx context.Context, path string, payload, result any) error {
	return c.do(ctx, http.MethodPut, path, payload, result)
}

func (c *Client) patch(ctx context.Context, path string, payload, result any) error {
	return c.do(ctx, http.MethodPatch, path, payload, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token.Token()
	if err != nil {
		return fmt.Errorf("resolve credential: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
