package entities

import "time"

// NotionCredential is the stored Notion OAuth grant
type NotionCredential struct {
	AccessToken   string `json:"accessToken"`
	WorkspaceID   string `json:"workspaceId"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	BotID         string `json:"botId,omitempty"`
}

// SlackCredential references the workspace bot that posts messages.
// The bot token itself lives in the workspace record keyed by TeamID.
type SlackCredential struct {
	AccessToken string `json:"accessToken,omitempty"`
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName,omitempty"`
	BotUserID   string `json:"botUserId"`
	BotEmail    string `json:"botEmail"`
}

// HubSpotCredential is the stored HubSpot OAuth grant
type HubSpotCredential struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	PortalID     string    `json:"portalId"`
}

// LinearTeam is a team the Linear grant can create issues in
type LinearTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
}

// LinearCredential is the stored Linear OAuth grant
type LinearCredential struct {
	AccessToken string       `json:"accessToken"`
	Teams       []LinearTeam `json:"teams,omitempty"`
}

// MondayCredential is the stored Monday.com OAuth grant
type MondayCredential struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

// SalesforceCredential is the stored Salesforce OAuth grant
type SalesforceCredential struct {
	AccessToken string `json:"accessToken"`
	InstanceURL string `json:"instanceUrl"`
}

// Credentials is the per-user bundle of provider grants, one field per provider.
// A nil field means the integration was never connected.
type Credentials struct {
	UserID     string
	Notion     *NotionCredential
	Slack      *SlackCredential
	HubSpot    *HubSpotCredential
	Linear     *LinearCredential
	Monday     *MondayCredential
	Salesforce *SalesforceCredential
}

// Has reports whether a credential for the provider behind the step type exists
func (c *Credentials) Has(t StepType) bool {
	if c == nil {
		return false
	}
	switch t {
	case StepTypeNotion:
		return c.Notion != nil
	case StepTypeSlack:
		return c.Slack != nil
	case StepTypeHubSpot:
		return c.HubSpot != nil
	case StepTypeLinear:
		return c.Linear != nil
	case StepTypeMonday:
		return c.Monday != nil
	case StepTypeSalesforce:
		return c.Salesforce != nil
	}
	return false
}

// SlackWorkspace is the workspace-level record holding the bot token
type SlackWorkspace struct {
	TeamID    string `json:"teamId"`
	TeamName  string `json:"teamName,omitempty"`
	BotToken  string `json:"botToken"`
	BotUserID string `json:"botUserId,omitempty"`
}
