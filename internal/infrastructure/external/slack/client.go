// Package slack posts Block Kit messages through the Slack Web API
package slack

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/ratelimit"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

const provider = "slack"

// Slack error codes meaning the bot token is no longer usable
var credentialErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"token_revoked":    true,
	"token_expired":    true,
	"account_inactive": true,
}

// Client posts messages with a workspace bot token
type Client struct {
	apiURL     string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     *zap.Logger
}

// NewClient creates a Slack client
func NewClient(cfg config.SlackConfig, limiter ratelimit.Limiter, logger *zap.Logger) *Client {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		logger:     logger,
	}
}

// PostMessage posts blocks to the channel and returns the message timestamp.
// fallback is the notification text shown by clients that cannot render blocks.
func (c *Client) PostMessage(ctx context.Context, botToken, channelID, fallback string, blocks []slack.Block) (string, error) {
	if err := c.limiter.Wait(ctx, provider); err != nil {
		return "", apperrors.ErrProviderTransport(provider, err)
	}

	api := slack.New(botToken,
		slack.OptionAPIURL(c.apiURL),
		slack.OptionHTTPClient(c.httpClient),
	)

	_, ts, err := api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return "", c.mapError(err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(provider, strconv.Itoa(http.StatusOK)).Inc()
	return ts, nil
}

func (c *Client) mapError(err error) error {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		metrics.ProviderRequestsTotal.WithLabelValues(provider, strconv.Itoa(http.StatusOK)).Inc()
		if credentialErrors[slackErr.Err] {
			return apperrors.ErrInvalidCredential(provider, err)
		}
		return apperrors.ErrProviderAPI(provider, http.StatusOK, slackErr.Err)
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		metrics.ProviderRequestsTotal.WithLabelValues(provider, strconv.Itoa(http.StatusTooManyRequests)).Inc()
		c.logger.Warn("⚠️ Slack rate limited the message",
			zap.Duration("retry_after", rateErr.RetryAfter),
		)
		return apperrors.ErrProviderAPI(provider, http.StatusTooManyRequests, rateErr.Error())
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		metrics.ProviderRequestsTotal.WithLabelValues(provider, strconv.Itoa(statusErr.Code)).Inc()
		return apperrors.ErrProviderAPI(provider, statusErr.Code, statusErr.Status)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(provider, "error").Inc()
	return apperrors.ErrProviderTransport(provider, err)
}
