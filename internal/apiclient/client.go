// Package apiclient talks to the remote source-hosting backend.
//
// ONE CALL = ONE REQUEST:
// The client is stateless per call. There is no retry, no batching and no
// caching; a failed call is reported to the caller, which logs it and shows
// a notification. The only shared state is an optional rate limiter that
// throttles (never rejects) outbound calls.
//
// CREDENTIALS:
// The backend's bearer token is attached with golang.org/x/oauth2: WithToken
// wraps the base transport in an oauth2.Transport over a StaticTokenSource,
// so handlers never build Authorization headers by hand.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/sakif/gitorbit/internal/apperror"
)

// Config holds the client settings.
type Config struct {
	BaseURL       string
	Timeout       time.Duration // 0 = none
	RatePerSecond float64       // 0 = unlimited
	Burst         int
}

// Client issues requests against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates an anonymous client. Use WithToken to get an authenticated one.
func New(cfg Config, logger *slog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

// WithToken returns a client that sends token as a bearer credential.
// The limiter is shared with the parent.
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: c.baseURL,
		http: &http.Client{
			Timeout: c.http.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
				Base:   base,
			},
		},
		limiter: c.limiter,
		logger:  c.logger,
	}
}

// errorBody is the part of a backend error response we opportunistically show.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON encodes in (if non-nil), sends the request and decodes the answer
// into out (if non-nil). It returns the HTTP status on success.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("apiclient: %s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, op, method, path, "application/json", body, in != nil, out)
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, hasBody bool, out any) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("apiclient: %s: waiting for rate limiter: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("apiclient: %s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("apiclient: %w", apperror.Transport(op, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return resp.StatusCode, fmt.Errorf("apiclient: %s: %w", op, apperror.Upstream(resp.StatusCode, msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("apiclient: %s: decoding response: %w", op, err)
		}
	}
	return resp.StatusCode, nil
}
