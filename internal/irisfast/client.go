package irisfast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// HeaderProvider supplies per-request headers (HTTP calls and the WS handshake).
type HeaderProvider func() map[string]string

// UserHeaders builds the X-User-* headers Iris expects; empty values are skipped.
func UserHeaders(userID, email, sessionID string) HeaderProvider {
	return func() map[string]string {
		h := map[string]string{}
		if userID != "" {
			h["X-User-Id"] = userID
		}
		if email != "" {
			h["X-User-Email"] = email
		}
		if sessionID != "" {
			h["X-Session-Id"] = sessionID
		}
		return h
	}
}

// APIError is a non-2xx answer from Iris.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iris api error: status=%d body=%s", e.Status, e.Body)
}

func (e *APIError) retryable() bool {
	switch e.Status {
	case fasthttp.StatusInternalServerError, fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable, fasthttp.StatusGatewayTimeout:
		return true
	}
	return false
}

// Client talks to the Iris HTTP API. Only idempotent calls are retried.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider

	timeout  time.Duration
	attempts int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

// WithRetry caps the attempts for idempotent calls.
func WithRetry(attempts int) Option {
	return func(c *Client) { c.attempts = attempts }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &fasthttp.Client{
			Name:            "cardjitsu-bot",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxConnsPerHost: 64,
		},
		timeout:  10 * time.Second,
		attempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	return c
}

func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := c.call(ctx, fasthttp.MethodGet, "/config", nil, &cfg, true); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) Decrypt(ctx context.Context, data string) (string, error) {
	var resp DecryptResponse
	if err := c.call(ctx, fasthttp.MethodPost, "/decrypt", DecryptRequest{Data: data}, &resp, true); err != nil {
		return "", err
	}
	return resp.Decrypted, nil
}

func (c *Client) SendMessage(ctx context.Context, room, message string) error {
	return c.reply(ctx, ReplyText, room, message)
}

func (c *Client) SendImage(ctx context.Context, room, imageBase64 string) error {
	return c.reply(ctx, ReplyImage, room, imageBase64)
}

// reply is never retried; a duplicate chat message is worse than a lost one.
func (c *Client) reply(ctx context.Context, kind, room, data string) error {
	return c.call(ctx, fasthttp.MethodPost, "/reply", ReplyRequest{Type: kind, Room: room, Data: data}, nil, false)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any, idempotent bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if idempotent {
		attempts = c.attempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, backoffDuration(attempt-1)); err != nil {
				return lastErr
			}
		}
		resp.Reset()
		if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
			lastErr = fmt.Errorf("%s %s: %w", method, path, err)
			continue
		}
		if status := resp.StatusCode(); status < 200 || status >= 300 {
			apiErr := &APIError{Status: status, Body: truncate(string(resp.Body()), 512)}
			if !apiErr.retryable() {
				return apiErr
			}
			lastErr = apiErr
			continue
		}
		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("iris: no attempt made")
	}
	return lastErr
}

// deadline is the earlier of the context deadline and the client timeout.
func (c *Client) deadline(ctx context.Context) time.Time {
	dl := time.Now().Add(c.timeout)
	if ctxDL, ok := ctx.Deadline(); ok && ctxDL.Before(dl) {
		return ctxDL
	}
	return dl
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoffDuration doubles from 100ms and caps at 3.2s.
func backoffDuration(attempt int) time.Duration {
	attempt = max(1, min(attempt, 6))
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
