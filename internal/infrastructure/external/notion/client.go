// Package notion is a minimal client for the Notion REST API
package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

// MaxChildrenPerRequest is the block limit of a single create or append call
const MaxChildrenPerRequest = 100

// Client calls the Notion API
type Client struct {
	http    *httpclient.Client
	baseURL string
	version string
}

// NewClient creates a Notion client
func NewClient(cfg config.NotionConfig, hc *httpclient.Client) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: cfg.Version,
	}
}

// Page is the subset of a page object the exporter needs
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type createPageRequest struct {
	Parent     map[string]string `json:"parent"`
	Properties map[string]any    `json:"properties"`
	Children   []Block           `json:"children,omitempty"`
}

type appendChildrenRequest struct {
	Children []Block `json:"children"`
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Notion-Version": c.version}
}

// VerifyToken checks that the token is still accepted by Notion
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		URL:     c.baseURL + "/v1/users/me",
		Token:   token,
		Headers: c.headers(),
	}, nil)
}

// CreatePage creates a child page under parentID.
// Blocks beyond the per-request limit are appended in follow-up batches.
func (c *Client) CreatePage(ctx context.Context, token, parentID, title string, children []Block) (*Page, error) {
	first := children
	if len(first) > MaxChildrenPerRequest {
		first = children[:MaxChildrenPerRequest]
	}

	body := createPageRequest{
		Parent: map[string]string{"page_id": parentID},
		Properties: map[string]any{
			"title": map[string]any{"title": RichTexts(title)},
		},
		Children: first,
	}

	var page Page
	if err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.baseURL + "/v1/pages",
		Token:   token,
		Headers: c.headers(),
		Body:    body,
	}, &page); err != nil {
		return nil, err
	}

	for start := len(first); start < len(children); start += MaxChildrenPerRequest {
		end := start + MaxChildrenPerRequest
		if end > len(children) {
			end = len(children)
		}
		if err := c.AppendChildren(ctx, token, page.ID, children[start:end]); err != nil {
			return &page, fmt.Errorf("page %s created but appending blocks failed: %w", page.ID, err)
		}
	}

	return &page, nil
}

// AppendChildren appends blocks to an existing block or page
func (c *Client) AppendChildren(ctx context.Context, token, blockID string, children []Block) error {
	return c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPatch,
		URL:     fmt.Sprintf("%s/v1/blocks/%s/children", c.baseURL, blockID),
		Token:   token,
		Headers: c.headers(),
		Body:    appendChildrenRequest{Children: children},
	}, nil)
}
