package export

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/monday"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/notion"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/salesforce"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

var meetingTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// scenarioTranscript is the shared fixture: notes plus one plain and one described item
func scenarioTranscript() *entities.TranscriptData {
	return &entities.TranscriptData{
		ID:        "t-1",
		Timestamp: meetingTime,
		Name:      "Q3 Planning",
		Notes:     "Discussed Q3 roadmap",
		ActionItems: []entities.ActionItem{
			{ID: "a1", Title: "Ship v2", Done: false},
			{ID: "a2", Title: "Email client", Description: "re: pricing", Done: true},
		},
		Attendees: []entities.Attendee{
			{Name: "Ana Lopez", Email: "ana@example.com"},
			{Name: "Bo", Email: "bo@example.com"},
		},
	}
}

func stepWith(t *testing.T, id string, typ entities.StepType, cfg any) *entities.Step {
	t.Helper()
	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal step config: %v", err)
	}
	return &entities.Step{ID: id, Type: typ, Config: raw}
}

func newInput(t *testing.T, transcript *entities.TranscriptData, step *entities.Step, creds *entities.Credentials) ExportInput {
	t.Helper()
	return ExportInput{
		RunID:       uuid.New(),
		UserID:      "ana@example.com",
		Transcript:  transcript,
		Step:        step,
		Credentials: creds,
		Run:         NewRunState(),
		Items:       &ItemTracker{},
		Logger:      zap.NewNop(),
	}
}

var testValidator = validator.New()

// --- repositories ---

type fakeTranscripts struct {
	transcript *entities.TranscriptData
	err        error
}

func (f *fakeTranscripts) Latest(ctx context.Context, userID string) (*entities.TranscriptData, error) {
	return f.transcript, f.err
}

type fakeUsers struct {
	mu    sync.Mutex
	creds *entities.Credentials
	err   error
	saved []*entities.HubSpotCredential
}

func (f *fakeUsers) GetCredentials(ctx context.Context, userID string) (*entities.Credentials, error) {
	return f.creds, f.err
}

func (f *fakeUsers) SaveHubSpotCredential(ctx context.Context, userID string, cred *entities.HubSpotCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *cred
	f.saved = append(f.saved, &c)
	return nil
}

type fakeAutomations struct {
	automations []*entities.Automation
	steps       map[string][]*entities.Step
}

func (f *fakeAutomations) ListAutomations(ctx context.Context, userID string) ([]*entities.Automation, error) {
	return f.automations, nil
}

func (f *fakeAutomations) ListSteps(ctx context.Context, userID, automationID string) ([]*entities.Step, error) {
	return f.steps[automationID], nil
}

type fakeRuns struct {
	mu    sync.Mutex
	saved map[string]*entities.ExportRun
}

func (f *fakeRuns) Save(ctx context.Context, run *entities.ExportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]*entities.ExportRun)
	}
	f.saved[run.ID.String()] = run
	return nil
}

func (f *fakeRuns) Get(ctx context.Context, userID, runID string) (*entities.ExportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.saved[runID]
	if !ok {
		return nil, entities.ErrRunNotFound
	}
	return run, nil
}

type fakeWorkspaces struct {
	workspaces map[string]*entities.SlackWorkspace
}

func (f *fakeWorkspaces) Get(ctx context.Context, teamID string) (*entities.SlackWorkspace, error) {
	ws, ok := f.workspaces[teamID]
	if !ok {
		return nil, entities.ErrWorkspaceNotFound
	}
	return ws, nil
}

// --- provider APIs ---

type fakeNotion struct {
	verifyErr error
	pages     []notionPage
}

type notionPage struct {
	parentID string
	title    string
	blocks   []notion.Block
}

func (f *fakeNotion) VerifyToken(ctx context.Context, token string) error {
	return f.verifyErr
}

func (f *fakeNotion) CreatePage(ctx context.Context, token, parentID, title string, children []notion.Block) (*notion.Page, error) {
	f.pages = append(f.pages, notionPage{parentID: parentID, title: title, blocks: children})
	return &notion.Page{ID: "page-1"}, nil
}

type fakeSlack struct {
	token    string
	channel  string
	fallback string
	messages [][]slack.Block
}

func (f *fakeSlack) PostMessage(ctx context.Context, botToken, channelID, fallback string, blocks []slack.Block) (string, error) {
	f.token = botToken
	f.channel = channelID
	f.fallback = fallback
	f.messages = append(f.messages, blocks)
	return "1.0", nil
}

type fakeHubSpot struct {
	mu           sync.Mutex
	tokens       []string
	notes        []string
	associations []string
	contactIDs   []string
	dealIDs      map[string][]string
}

func (f *fakeHubSpot) CreateNote(ctx context.Context, token, body string, timestamp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.notes = append(f.notes, body)
	return "note-1", nil
}

func (f *fakeHubSpot) FindContactIDs(ctx context.Context, token string, emails []string) ([]string, error) {
	return f.contactIDs, nil
}

func (f *fakeHubSpot) ContactDealIDs(ctx context.Context, token, contactID string) ([]string, error) {
	return f.dealIDs[contactID], nil
}

func (f *fakeHubSpot) AssociateNote(ctx context.Context, token, noteID, objectType, objectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.associations = append(f.associations, objectType+"/"+objectID)
	return nil
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		Expiry:       time.Now().Add(30 * time.Minute),
	}, nil
}

func (f *fakeRefresher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLinear struct {
	failTitles map[string]error
	created    []linear.IssueInput
}

func (f *fakeLinear) CreateIssue(ctx context.Context, token string, input linear.IssueInput) (*linear.Issue, error) {
	if err := f.failTitles[input.Title]; err != nil {
		return nil, err
	}
	f.created = append(f.created, input)
	return &linear.Issue{ID: input.Title, Identifier: "ENG-1"}, nil
}

type fakeMonday struct {
	columns      []monday.Column
	failTitles   map[string]error
	created      []string
	columnCalls  int
	columnValues []map[string]any
}

func (f *fakeMonday) CreateItem(ctx context.Context, token, boardID, groupID, name string) (string, error) {
	if err := f.failTitles[name]; err != nil {
		return "", err
	}
	f.created = append(f.created, name)
	return "item-" + name, nil
}

func (f *fakeMonday) BoardColumns(ctx context.Context, token, boardID string) ([]monday.Column, error) {
	f.columnCalls++
	return f.columns, nil
}

func (f *fakeMonday) ChangeColumnValues(ctx context.Context, token, boardID, itemID string, values map[string]any) error {
	f.columnValues = append(f.columnValues, values)
	return nil
}

type fakeSalesforce struct {
	tasks     []salesforce.Task
	contacts  []salesforce.Contact
	existing  map[string]string
	failTasks map[string]error
}

func (f *fakeSalesforce) CreateTask(ctx context.Context, s salesforce.Session, task salesforce.Task) (string, error) {
	if err := f.failTasks[task.Subject]; err != nil {
		return "", err
	}
	f.tasks = append(f.tasks, task)
	return "00T", nil
}

func (f *fakeSalesforce) CreateContact(ctx context.Context, s salesforce.Session, contact salesforce.Contact) (string, error) {
	f.contacts = append(f.contacts, contact)
	return "003", nil
}

func (f *fakeSalesforce) FindContactByEmail(ctx context.Context, s salesforce.Session, email string) (string, error) {
	return f.existing[email], nil
}

// --- adapters ---

type funcAdapter func(ctx context.Context, in ExportInput) error

func (f funcAdapter) Export(ctx context.Context, in ExportInput) error {
	return f(ctx, in)
}
