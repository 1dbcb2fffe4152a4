package entities

import (
	"encoding/json"
	"time"
)

// StepType identifies the provider (or metadata role) of an automation step
type StepType string

const (
	StepTypeTrigger    StepType = "trigger"
	StepTypeNotion     StepType = "notion"
	StepTypeSlack      StepType = "slack"
	StepTypeHubSpot    StepType = "hubspot"
	StepTypeLinear     StepType = "linear"
	StepTypeMonday     StepType = "monday"
	StepTypeSalesforce StepType = "salesforce"
	StepTypeAIInsights StepType = "ai-insights"
)

// IsValid checks if the step type is one of the known types
func (t StepType) IsValid() bool {
	switch t {
	case StepTypeTrigger, StepTypeNotion, StepTypeSlack, StepTypeHubSpot,
		StepTypeLinear, StepTypeMonday, StepTypeSalesforce, StepTypeAIInsights:
		return true
	}
	return false
}

// Automation is a named, user-owned ordered list of steps
type Automation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Step is one configured action within an automation.
// Config is kept raw and decoded by the adapter registered for Type.
type Step struct {
	ID     string          `json:"id"`
	Type   StepType        `json:"type"`
	Order  int             `json:"order"`
	Config json.RawMessage `json:"config"`
}

// TriggerConfig is the metadata carried by a trigger step
type TriggerConfig struct {
	Tags []string `json:"tags"`
}

// NotionStepConfig configures a Notion export step
type NotionStepConfig struct {
	PageID            string `json:"pageId" validate:"required"`
	PageTitle         string `json:"pageTitle"`
	ExportNotes       bool   `json:"exportNotes"`
	ExportActionItems bool   `json:"exportActionItems"`
}

// SlackStepConfig configures a Slack export step
type SlackStepConfig struct {
	ChannelID       string `json:"channelId" validate:"required"`
	ChannelName     string `json:"channelName"`
	SendNotes       bool   `json:"sendNotes"`
	SendActionItems bool   `json:"sendActionItems"`
}

// HubSpotStepConfig configures a HubSpot export step
type HubSpotStepConfig struct {
	PortalID            string `json:"portalId"`
	AccountType         string `json:"accountType"`
	Contacts            bool   `json:"contacts"`
	Deals               bool   `json:"deals"`
	IncludeMeetingNotes bool   `json:"includeMeetingNotes"`
	IncludeActionItems  bool   `json:"includeActionItems"`
}

// LinearStepConfig configures a Linear export step
type LinearStepConfig struct {
	TeamID   string `json:"teamId" validate:"required"`
	TeamName string `json:"teamName"`
}

// MondayStepConfig configures a Monday.com export step
type MondayStepConfig struct {
	Board     string `json:"board" validate:"required"`
	BoardName string `json:"boardName"`
	Group     string `json:"group" validate:"required"`
	GroupName string `json:"groupName"`
}

// SalesforceStepConfig configures a Salesforce export step
type SalesforceStepConfig struct {
	IncludeMeetingNotes bool `json:"includeMeetingNotes"`
	IncludeActionItems  bool `json:"includeActionItems"`
	UpdateContacts      bool `json:"updateContacts"`
}
