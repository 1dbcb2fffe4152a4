// Package salesforce is a minimal client for the Salesforce REST API
package salesforce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

// Session is an org-scoped access grant
type Session struct {
	InstanceURL string
	AccessToken string
}

// Task is the subset of the Task sObject the exporter writes
type Task struct {
	Subject      string `json:"Subject"`
	Description  string `json:"Description,omitempty"`
	ActivityDate string `json:"ActivityDate,omitempty"`
	Status       string `json:"Status"`
	Priority     string `json:"Priority,omitempty"`
	Type         string `json:"Type,omitempty"`
	WhoID        string `json:"WhoId,omitempty"`
}

// Contact is the subset of the Contact sObject the exporter writes
type Contact struct {
	FirstName string `json:"FirstName,omitempty"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
}

type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Errors  []any  `json:"errors"`
}

// Client calls the Salesforce REST API
type Client struct {
	http       *httpclient.Client
	apiVersion string
}

// NewClient creates a Salesforce client
func NewClient(cfg config.SalesforceConfig, hc *httpclient.Client) *Client {
	return &Client{
		http:       hc,
		apiVersion: cfg.APIVersion,
	}
}

func (c *Client) dataURL(s Session, path string) string {
	return fmt.Sprintf("%s/services/data/%s%s", strings.TrimRight(s.InstanceURL, "/"), c.apiVersion, path)
}

func (c *Client) create(ctx context.Context, s Session, sobject string, record any) (string, error) {
	var out createResponse
	if err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.dataURL(s, "/sobjects/"+sobject),
		Token:  s.AccessToken,
		Body:   record,
	}, &out); err != nil {
		return "", err
	}
	if !out.Success || out.ID == "" {
		return "", fmt.Errorf("salesforce rejected %s: %v", sobject, out.Errors)
	}
	return out.ID, nil
}

// CreateTask creates a Task and returns its id
func (c *Client) CreateTask(ctx context.Context, s Session, task Task) (string, error) {
	return c.create(ctx, s, "Task", task)
}

// CreateContact creates a Contact and returns its id
func (c *Client) CreateContact(ctx context.Context, s Session, contact Contact) (string, error) {
	return c.create(ctx, s, "Contact", contact)
}

// FindContactByEmail returns the id of the first contact with the email, or "" if none exists
func (c *Client) FindContactByEmail(ctx context.Context, s Session, email string) (string, error) {
	soql := fmt.Sprintf("SELECT Id FROM Contact WHERE Email = '%s' LIMIT 1", EscapeSOQL(email))

	var out struct {
		TotalSize int `json:"totalSize"`
		Records   []struct {
			ID string `json:"Id"`
		} `json:"records"`
	}
	if err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.dataURL(s, "/query?q="+url.QueryEscape(soql)),
		Token:  s.AccessToken,
	}, &out); err != nil {
		return "", err
	}
	if len(out.Records) == 0 {
		return "", nil
	}
	return out.Records[0].ID, nil
}

var soqlReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeSOQL escapes a value for use inside a single-quoted SOQL string literal
func EscapeSOQL(s string) string {
	return soqlReplacer.Replace(s)
}
