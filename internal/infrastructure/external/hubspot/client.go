// Package hubspot is a minimal client for the HubSpot CRM v3/v4 APIs
package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

// Object types used in association paths
const (
	ObjectContacts = "contacts"
	ObjectDeals    = "deals"
)

// Client calls the HubSpot CRM API
type Client struct {
	http    *httpclient.Client
	baseURL string
}

// NewClient creates a HubSpot client
func NewClient(cfg config.HubSpotConfig, hc *httpclient.Client) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type objectResponse struct {
	ID string `json:"id"`
}

// CreateNote logs a note engagement and returns its id
func (c *Client) CreateNote(ctx context.Context, token, body string, timestamp time.Time) (string, error) {
	req := map[string]any{
		"properties": map[string]string{
			"hs_timestamp": timestamp.UTC().Format(time.RFC3339Nano),
			"hs_note_body": body,
		},
	}

	var out objectResponse
	if err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/crm/v3/objects/notes",
		Token:  token,
		Body:   req,
	}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("hubspot returned a note without id")
	}
	return out.ID, nil
}

// FindContactIDs returns the ids of contacts whose email is one of emails
func (c *Client) FindContactIDs(ctx context.Context, token string, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	req := map[string]any{
		"filterGroups": []any{
			map[string]any{
				"filters": []any{
					map[string]any{
						"propertyName": "email",
						"operator":     "IN",
						"values":       emails,
					},
				},
			},
		},
		"properties": []string{"email"},
		"limit":      100,
	}

	var out struct {
		Results []objectResponse `json:"results"`
	}
	if err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/crm/v3/objects/contacts/search",
		Token:  token,
		Body:   req,
	}, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// ContactDealIDs returns the deals associated with a contact
func (c *Client) ContactDealIDs(ctx context.Context, token, contactID string) ([]string, error) {
	var out struct {
		Results []struct {
			ToObjectID json.Number `json:"toObjectId"`
		} `json:"results"`
	}
	if err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/crm/v4/objects/contacts/%s/associations/deals", c.baseURL, url.PathEscape(contactID)),
		Token:  token,
	}, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		ids = append(ids, r.ToObjectID.String())
	}
	return ids, nil
}

// AssociateNote links a note to a contact or deal using the default association type
func (c *Client) AssociateNote(ctx context.Context, token, noteID, objectType, objectID string) error {
	return c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		URL: fmt.Sprintf("%s/crm/v4/objects/notes/%s/associations/default/%s/%s",
			c.baseURL, url.PathEscape(noteID), objectType, url.PathEscape(objectID)),
		Token: token,
	}, nil)
}
