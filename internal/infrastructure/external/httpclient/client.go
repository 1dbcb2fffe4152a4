// Package httpclient is the JSON-over-HTTP client shared by the provider integrations.
// Every call is rate limited per provider, retried with backoff on transient failures
// and mapped onto the application error taxonomy.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/ratelimit"
)

const maxErrorBody = 1024

// RetryConfig bounds the retry loop for transient provider errors
type RetryConfig struct {
	MaxRetries uint64
	Initial    time.Duration
	MaxElapsed time.Duration
}

// DefaultRetry is used when no retry configuration is given
var DefaultRetry = RetryConfig{
	MaxRetries: 3,
	Initial:    500 * time.Millisecond,
	MaxElapsed: 20 * time.Second,
}

// Client calls one provider's API
type Client struct {
	provider string
	http     *http.Client
	limiter  ratelimit.Limiter
	logger   *zap.Logger
	retry    RetryConfig
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLimiter sets the per-provider rate limiter
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetry sets the retry bounds
func WithRetry(r RetryConfig) Option {
	return func(c *Client) {
		c.retry = r
	}
}

// New creates a client for the named provider
func New(provider string, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  ratelimit.Noop{},
		logger:   zap.NewNop(),
		retry:    DefaultRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name used for errors, metrics and rate limiting
func (c *Client) Provider() string {
	return c.provider
}

// Request describes one API call.
// Token, when set, is sent as an OAuth2 bearer token.
type Request struct {
	Method  string
	URL     string
	Token   string
	Headers map[string]string
	Body    any
}

// Do sends the request and decodes a 2xx JSON response into out (which may be nil)
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	var payload []byte
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return apperrors.ErrInternal(fmt.Errorf("failed to encode %s request: %w", c.provider, err))
		}
		payload = b
	}

	hc := c.clientFor(r.Token)
	attempt := 0

	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx, c.provider); err != nil {
			return backoff.Permanent(apperrors.ErrProviderTransport(c.provider, err))
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
		if err != nil {
			return backoff.Permanent(apperrors.ErrInternal(err))
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range r.Headers {
			req.Header.Set(k, v)
		}

		resp, err := hc.Do(req)
		if err != nil {
			metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(apperrors.ErrProviderTransport(c.provider, ctx.Err()))
			}
			return apperrors.ErrProviderTransport(c.provider, err)
		}
		defer resp.Body.Close()

		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, strconv.Itoa(resp.StatusCode)).Inc()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperrors.ErrProviderTransport(c.provider, err)
		}

		if resp.StatusCode >= 400 {
			apiErr := apperrors.ErrProviderAPI(c.provider, resp.StatusCode, truncate(respBody))
			if retryable(resp.StatusCode) {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return backoff.Permanent(apperrors.ErrProviderTransport(c.provider,
				fmt.Errorf("failed to decode response: %w", err)))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("⚠️ Provider call failed, retrying",
			zap.String("provider", c.provider),
			zap.String("method", r.Method),
			zap.String("url", r.URL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	return backoff.RetryNotify(operation, c.backoff(ctx), notify)
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.retry.Initial > 0 {
		exp.InitialInterval = c.retry.Initial
	}
	if c.retry.MaxElapsed > 0 {
		exp.MaxElapsedTime = c.retry.MaxElapsed
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, c.retry.MaxRetries), ctx)
}

// clientFor wraps the base transport with a static bearer token source
func (c *Client) clientFor(token string) *http.Client {
	if token == "" {
		return c.http
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout: c.http.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}

// StatusCode returns the provider HTTP status carried by a provider API error, or 0
func StatusCode(err error) int {
	var appErr apperrors.AppError
	if !apperrors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_INTEGRATION_PROVIDER_API_FAILED {
		return 0
	}
	status, _ := strconv.Atoi(appErr.Detail("status"))
	return status
}

// IsUnauthorized reports whether a provider rejected the access token
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
