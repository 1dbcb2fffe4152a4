package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automations/internal/adapter/repository"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-automations/pkg/config"
	pkgjwt "github.com/johnquangdev/meeting-automations/pkg/jwt"
)

const testUser = "alice@test.local"

func main() {
	log.Println("🚀 Seeding a test user...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ctx := context.Background()
	store := repository.NewDocumentStore(db)

	// Integrations are only written for tokens present in the environment
	user := map[string]any{"email": testUser}
	if token := os.Getenv("SEED_NOTION_TOKEN"); token != "" {
		user["notionIntegration"] = entities.NotionCredential{AccessToken: token, WorkspaceID: "seed"}
	}
	if token := os.Getenv("SEED_LINEAR_TOKEN"); token != "" {
		user["linearIntegration"] = entities.LinearCredential{AccessToken: token}
	}
	if token := os.Getenv("SEED_MONDAY_TOKEN"); token != "" {
		user["mondayIntegration"] = entities.MondayCredential{AccessToken: token}
	}
	if err := store.Set(ctx, repository.UserPath(testUser), user); err != nil {
		log.Fatalf("❌ Failed to write user: %v", err)
	}

	transcriptID := uuid.NewString()
	transcript := map[string]any{
		"timestamp": map[string]int64{"seconds": time.Now().Unix(), "nanoseconds": 0},
		"name":      "Weekly Sync",
		"notes":     "Reviewed the launch checklist and open support tickets.",
		"actionItems": []entities.ActionItem{
			{ID: uuid.NewString(), Title: "Update launch checklist", Description: "Add the billing migration"},
			{ID: uuid.NewString(), Title: "Reply to open tickets", Done: true},
		},
		"attendees": []entities.Attendee{{Name: "Alice Example", Email: testUser}},
		"tags":      []string{"weekly"},
	}
	if err := store.Set(ctx, repository.TranscriptCollection(testUser)+"/"+transcriptID, transcript); err != nil {
		log.Fatalf("❌ Failed to write transcript: %v", err)
	}

	automationID := uuid.NewString()
	automation := entities.Automation{ID: automationID, Name: "After weekly sync", CreatedAt: time.Now()}
	if err := store.Set(ctx, repository.AutomationCollection(testUser)+"/"+automationID, automation); err != nil {
		log.Fatalf("❌ Failed to write automation: %v", err)
	}

	steps := []map[string]any{
		{"type": entities.StepTypeTrigger, "order": 0, "config": entities.TriggerConfig{Tags: []string{"weekly"}}},
		{"type": entities.StepTypeNotion, "order": 1, "config": entities.NotionStepConfig{PageID: os.Getenv("SEED_NOTION_PAGE_ID"), ExportNotes: true, ExportActionItems: true}},
		{"type": entities.StepTypeLinear, "order": 2, "config": entities.LinearStepConfig{TeamID: os.Getenv("SEED_LINEAR_TEAM_ID")}},
		{"type": entities.StepTypeAIInsights, "order": 3, "config": map[string]any{}},
	}
	for _, step := range steps {
		stepID := uuid.NewString()
		if err := store.Set(ctx, repository.StepCollection(testUser, automationID)+"/"+stepID, step); err != nil {
			log.Fatalf("❌ Failed to write step: %v", err)
		}
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.ServiceSecret, cfg.JWT.Issuer, cfg.JWT.TokenExpiry)
	token, err := jwtManager.GenerateServiceToken("seed", pkgjwt.ScopeExport)
	if err != nil {
		log.Fatalf("❌ Failed to generate service token: %v", err)
	}

	fmt.Printf("═══════════════════════════════════════════════════════════════\n")
	fmt.Printf("🟢 User:        %s\n", testUser)
	fmt.Printf("Transcript:     %s\n", transcriptID)
	fmt.Printf("Automation:     %s\n", automationID)
	fmt.Printf("\n📋 Service Token (expires in %v):\n", cfg.JWT.TokenExpiry)
	fmt.Printf("%s\n", token)
	fmt.Printf("───────────────────────────────────────────────────────────────\n\n")

	log.Println("✅ Seed data written")
	log.Println("💡 Trigger an export with:")
	log.Printf("   curl -X POST -H 'Authorization: Bearer <token>' -d '{\"user_id\":\"%s\"}' -H 'Content-Type: application/json' http://localhost:%s/v1/exports", testUser, cfg.Server.Port)
}
