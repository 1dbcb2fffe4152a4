// Package linear creates issues through the Linear GraphQL API
package linear

import (
	"context"
	"fmt"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/graphql"
)

// DefaultPriority is "High" on Linear's 0-4 scale
const DefaultPriority = 2

const issueCreateMutation = `mutation IssueCreate($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue { id identifier url }
  }
}`

// IssueInput is the subset of IssueCreateInput the exporter sets
type IssueInput struct {
	TeamID      string `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
}

// Issue is a created issue
type Issue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

// Client calls the Linear API
type Client struct {
	gql *graphql.Client
}

// NewClient creates a Linear client
func NewClient(gql *graphql.Client) *Client {
	return &Client{gql: gql}
}

// CreateIssue creates one issue; success=false is reported as an error
func (c *Client) CreateIssue(ctx context.Context, token string, input IssueInput) (*Issue, error) {
	var out struct {
		IssueCreate struct {
			Success bool   `json:"success"`
			Issue   *Issue `json:"issue"`
		} `json:"issueCreate"`
	}

	if err := c.gql.Do(ctx, token, issueCreateMutation, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	if !out.IssueCreate.Success || out.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("linear issueCreate returned success=false for %q", input.Title)
	}
	return out.IssueCreate.Issue, nil
}
