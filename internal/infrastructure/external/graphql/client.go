// Package graphql sends GraphQL operations with typed variables.
// Queries are constant documents; user-supplied values only ever travel as variables.
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
)

// Error is one entry of a GraphQL errors array
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Errors is a non-empty GraphQL errors array
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Client posts operations to a single GraphQL endpoint
type Client struct {
	http    *httpclient.Client
	url     string
	headers map[string]string
	rawAuth bool
}

// Option configures a Client
type Option func(*Client)

// WithHeader adds a static header to every operation
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithRawAuthorization sends the token as the bare Authorization header instead of a bearer token
func WithRawAuthorization() Option {
	return func(c *Client) {
		c.rawAuth = true
	}
}

// New creates a client for the endpoint
func New(url string, hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    hc,
		url:     url,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the operation and decodes data into out.
// A non-empty errors array is returned as a provider API error wrapping Errors.
func (c *Client) Do(ctx context.Context, token, query string, variables map[string]any, out any) error {
	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}

	req := httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.url,
		Headers: headers,
		Body:    request{Query: query, Variables: variables},
	}
	if c.rawAuth {
		headers["Authorization"] = token
	} else {
		req.Token = token
	}

	var resp response
	if err := c.http.Do(ctx, req, &resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		apiErr := apperrors.ErrProviderAPI(c.http.Provider(), http.StatusOK, resp.Errors.Error())
		apiErr.Raw = resp.Errors
		return apiErr
	}

	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return apperrors.ErrProviderTransport(c.http.Provider(), fmt.Errorf("failed to decode graphql data: %w", err))
	}
	return nil
}
