// Package gateway reads the portal's remote backend. Every operation resolves:
// when the backend fails or answers with something that is not the expected
// JSON document, the caller gets the fixed demo value for that resource.
package gateway

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

	"github.com/rs/zerolog"

	"syncportal/internal/config"
)

const maxBodyBytes = 4 << 20

var (
	ErrHTMLPayload      = errors.New("received html instead of json")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyPayload     = errors.New("empty payload")
)

type Source string

const (
	SourceLive        Source = "live"
	SourceFallback    Source = "fallback"
	SourceSynthesized Source = "synthesized"
)

// Result records which path produced a value.
type Result[T any] struct {
	Source Source
	Value  T
}

func (r Result[T]) Live() bool {
	return r.Source == SourceLive
}

type Client struct {
	baseURL  string
	http     *http.Client
	featured string
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg config.GatewayConfig, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		featured: cfg.FeaturedStudent,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetch performs one request and decodes the JSON body into T, substituting
// fallback on any failure.
func fetch[T any](ctx context.Context, c *Client, resource string, method string, path string, body any, fallback func() T) Result[T] {
	value, err := doJSON[T](ctx, c, method, path, body)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("resource", resource).
			Str("path", path).
			Msg("backend unreachable or returned invalid data, using fallback")
		return Result[T]{Source: SourceFallback, Value: fallback()}
	}
	return Result[T]{Source: SourceLive, Value: value}
}

func doJSON[T any](ctx context.Context, c *Client, method string, path string, body any) (T, error) {
	var out T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return out, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, ErrEmptyPayload
	}
	if trimmed[0] == '<' {
		return out, ErrHTMLPayload
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("decode body: %w", err)
	}
	return out, nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
