package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

func setupInMemoryStore(t *testing.T) *DocumentStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new :memory: connection is a fresh database
	sqlDB.SetMaxOpenConns(1)
	s, err := NewDocumentStoreFromDB(db)
	require.NoError(t, err)
	return s
}

func TestDocumentStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)

	_, err := s.Get(ctx, "users/nobody")
	assert.ErrorIs(t, err, entities.ErrDocumentNotFound)

	require.NoError(t, s.Set(ctx, "users/a@example.com", map[string]any{"name": "A"}))
	require.NoError(t, s.Set(ctx, "/users/a@example.com/", map[string]any{"name": "B"}))

	doc, err := s.Get(ctx, "users/a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "users", doc.Collection)
	assert.Equal(t, "a@example.com", doc.ID)
	assert.JSONEq(t, `{"name":"B"}`, string(doc.Data))

	require.NoError(t, s.Set(ctx, "users/b@example.com", map[string]any{}))
	require.NoError(t, s.Set(ctx, "users/a@example.com/sub/x", map[string]any{}))
	docs, err := s.List(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, docs, 2, "nested documents are not direct children")

	require.NoError(t, s.Delete(ctx, "users/b@example.com"))
	docs, err = s.List(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	assert.Error(t, s.Set(ctx, "", map[string]any{}))
}

func TestTranscriptLatestNormalizesTimestamps(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	user := "u1"
	coll := TranscriptCollection(user)

	require.NoError(t, s.Set(ctx, coll+"/old", map[string]any{
		"timestamp": map[string]any{"seconds": 1700000000, "nanoseconds": 0},
		"name":      "Old",
	}))
	require.NoError(t, s.Set(ctx, coll+"/newest", map[string]any{
		"timestamp":   int64(1800000000000),
		"name":        "Newest",
		"notes":       "Discussed Q3 roadmap",
		"actionItems": []map[string]any{{"id": "1", "title": "Ship v2", "done": false}},
		"attendees":   []map[string]any{{"name": "Ada Lovelace", "email": "ada@example.com"}},
	}))
	require.NoError(t, s.Set(ctx, coll+"/middle", map[string]any{
		"timestamp": map[string]any{"_seconds": 1750000000, "_nanoseconds": 0},
		"name":      "Middle",
	}))

	repo := NewTranscriptRepository(s, zap.NewNop())
	got, err := repo.Latest(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "newest", got.ID)
	assert.Equal(t, "Newest", got.Name)
	assert.Equal(t, time.UnixMilli(1800000000000).UTC(), got.Timestamp)
	require.Len(t, got.ActionItems, 1)
	assert.Equal(t, "Ship v2", got.ActionItems[0].Title)
	require.Len(t, got.Attendees, 1)

	_, err = repo.Latest(ctx, "nobody")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotFound)
}

func TestTranscriptLatestIgnoresUndatedWhenDatedExists(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	coll := TranscriptCollection("u1")

	require.NoError(t, s.Set(ctx, coll+"/dated", map[string]any{
		"timestamp": time.Now().Add(-24 * time.Hour).UnixMilli(),
		"name":      "Yesterday",
	}))
	require.NoError(t, s.Set(ctx, coll+"/undated", map[string]any{
		"name": "No timestamp",
	}))
	require.NoError(t, s.Set(ctx, coll+"/unknown-shape", map[string]any{
		"timestamp": "last tuesday",
		"name":      "Unparseable",
	}))

	repo := NewTranscriptRepository(s, zap.NewNop())
	got, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "dated", got.ID)
	assert.Equal(t, "Yesterday", got.Name)
}

func TestTranscriptLatestFallsBackToNewestUndated(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	coll := TranscriptCollection("u1")

	require.NoError(t, s.Set(ctx, coll+"/first", map[string]any{"name": "First"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Set(ctx, coll+"/second", map[string]any{"name": "Second"}))

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	repo := NewTranscriptRepository(s, zap.NewNop())
	repo.now = func() time.Time { return now }

	got, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)
	assert.Equal(t, now, got.Timestamp)
}

func TestTranscriptLatestSkipsUndecodable(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	coll := TranscriptCollection("u1")

	require.NoError(t, s.Set(ctx, coll+"/legacy", map[string]any{
		"timestamp": int64(1700000000000),
		"name":      "Legacy",
		"actionItems": []map[string]any{
			{"id": "1", "title": "Open item", "done": "false"},
			{"id": "2", "title": "Closed item", "done": "true"},
		},
	}))
	require.NoError(t, s.Set(ctx, coll+"/broken", map[string]any{
		"timestamp":   int64(1800000000000),
		"name":        "Broken",
		"actionItems": "not a list",
	}))

	repo := NewTranscriptRepository(s, zap.NewNop())
	got, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.ID)
	require.Len(t, got.ActionItems, 2)
	assert.False(t, got.ActionItems[0].Done)
	assert.True(t, got.ActionItems[1].Done)

	require.NoError(t, s.Delete(ctx, coll+"/legacy"))
	_, err = repo.Latest(ctx, "u1")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotFound)
}

func TestUserCredentials(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	repo := NewUserRepository(s)

	_, err := repo.GetCredentials(ctx, "ghost")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, UserPath("u1"), map[string]any{
		"displayName":       "Ada",
		"notionIntegration": map[string]any{"accessToken": "n-tok", "workspaceId": "ws"},
		"slackIntegration":  nil,
		"hubspotIntegration": map[string]any{
			"accessToken":  "h-tok",
			"refreshToken": "h-ref",
			"expiresAt":    expires.UnixMilli(),
			"portalId":     12345,
		},
		"linearIntegration": map[string]any{"accessToken": "l-tok", "teams": []map[string]any{{"id": "t1", "name": "Core"}}},
	}))

	creds, err := repo.GetCredentials(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, creds.Notion)
	assert.Equal(t, "n-tok", creds.Notion.AccessToken)
	assert.Nil(t, creds.Slack)
	assert.False(t, creds.Has(entities.StepTypeSlack))
	require.NotNil(t, creds.HubSpot)
	assert.Equal(t, "12345", creds.HubSpot.PortalID)
	assert.Equal(t, expires, creds.HubSpot.ExpiresAt)
	require.NotNil(t, creds.Linear)
	assert.Len(t, creds.Linear.Teams, 1)
	assert.Nil(t, creds.Monday)
	assert.Nil(t, creds.Salesforce)

	refreshed := &entities.HubSpotCredential{
		AccessToken:  "h-tok-2",
		RefreshToken: "h-ref-2",
		ExpiresAt:    expires.Add(time.Hour),
		PortalID:     "12345",
	}
	require.NoError(t, repo.SaveHubSpotCredential(ctx, "u1", refreshed))

	creds, err = repo.GetCredentials(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h-tok-2", creds.HubSpot.AccessToken)
	assert.Equal(t, expires.Add(time.Hour), creds.HubSpot.ExpiresAt)
	assert.Equal(t, "n-tok", creds.Notion.AccessToken, "other integrations are preserved")

	doc, err := s.Get(ctx, UserPath("u1"))
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc.Data, &fields))
	assert.JSONEq(t, `"Ada"`, string(fields["displayName"]))
}

func TestSlackWorkspace(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	repo := NewSlackWorkspaceRepository(s)

	_, err := repo.Get(ctx, "T1")
	assert.ErrorIs(t, err, entities.ErrWorkspaceNotFound)

	require.NoError(t, s.Set(ctx, "slack_workspaces/T1", map[string]any{"botToken": "xoxb-1"}))
	ws, err := repo.Get(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "xoxb-1", ws.BotToken)
	assert.Equal(t, "T1", ws.TeamID)
}

func TestAutomationsAndSteps(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	repo := NewAutomationRepository(s)

	require.NoError(t, s.Set(ctx, AutomationCollection("u1")+"/a1", map[string]any{"name": "After every meeting"}))
	steps := StepCollection("u1", "a1")
	require.NoError(t, s.Set(ctx, steps+"/s-slack", map[string]any{"type": "slack", "order": 2, "config": map[string]any{"channelId": "C1"}}))
	require.NoError(t, s.Set(ctx, steps+"/s-trigger", map[string]any{"type": "trigger", "order": 0, "config": map[string]any{"tags": []string{"sales"}}}))
	require.NoError(t, s.Set(ctx, steps+"/s-notion", map[string]any{"type": "notion", "order": 1, "config": map[string]any{"pageId": "p1"}}))

	automations, err := repo.ListAutomations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, automations, 1)
	assert.Equal(t, "After every meeting", automations[0].Name)

	got, err := repo.ListSteps(ctx, "u1", "a1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, entities.StepTypeTrigger, got[0].Type)
	assert.Equal(t, entities.StepTypeNotion, got[1].Type)
	assert.Equal(t, entities.StepTypeSlack, got[2].Type)
	assert.JSONEq(t, `{"channelId":"C1"}`, string(got[2].Config))
}

func TestExportRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupInMemoryStore(t)
	repo := NewExportRunRepository(s)

	run := entities.NewExportRun("u1")
	run.Success = true
	run.Results = append(run.Results, entities.StepResult{StepID: "s1", Type: entities.StepTypeSlack, Status: entities.StepStatusSucceeded, OK: true})
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.Get(ctx, "u1", run.ID.String())
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	require.Len(t, got.Results, 1)
	assert.Equal(t, entities.StepStatusSucceeded, got.Results[0].Status)

	_, err = repo.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, entities.ErrRunNotFound)
}
