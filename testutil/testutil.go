// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/polls"
	"github.com/danielhkuo/livepoll/store"
)

// TestPassword is the password RegisterUser gives every account.
const TestPassword = "correct-horse"

// Stack is a fully wired service on temporary storage.
type Stack struct {
	Config   cliparse.Config
	Store    store.Backend
	Locks    *polls.Locks
	Archiver *archive.Archiver
	Manager  *polls.Manager
	Sessions *auth.Sessions
	Gateway  *auth.Gateway
}

// GetTestConfig returns a standard test configuration rooted in a temp dir
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()
	return cliparse.Config{
		Port:          3318,
		Storage:       store.KindFile,
		DataDir:       filepath.Join(dir, "data"),
		ResultsDir:    filepath.Join(dir, "results"),
		DatabaseURL:   filepath.Join(dir, "livepoll.db"),
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
		LogLevel:      "info",
	}
}

// SetupStack opens the backend named by cfg.Storage and wires every
// component on top of it. The backend is closed when the test ends.
func SetupStack(t *testing.T, cfg cliparse.Config) *Stack {
	t.Helper()

	backend, err := store.Open(store.Options{
		Kind:        cfg.Storage,
		DataDir:     cfg.DataDir,
		ResultsDir:  cfg.ResultsDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		t.Fatalf("Failed to open %s store: %v", cfg.Storage, err)
	}
	t.Cleanup(func() { backend.Close() })

	locks := polls.NewLocks()
	archiver := archive.New(backend)
	manager := polls.NewManager(backend, archiver, locks, polls.Options{
		AutoActivateFirstPoll: cfg.AutoActivateFirstPoll,
	})
	creds := auth.NewCredentials(backend)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)

	return &Stack{
		Config:   cfg,
		Store:    backend,
		Locks:    locks,
		Archiver: archiver,
		Manager:  manager,
		Sessions: sessions,
		Gateway:  auth.NewGateway(creds, sessions, polls.NewMigrator(creds, backend, locks)),
	}
}

// SetupFileStack is SetupStack on the directory backend.
func SetupFileStack(t *testing.T) *Stack {
	t.Helper()
	return SetupStack(t, GetTestConfig(t))
}

// SetupSQLiteStack is SetupStack on a SQLite file in a temp dir.
func SetupSQLiteStack(t *testing.T) *Stack {
	t.Helper()
	cfg := GetTestConfig(t)
	cfg.Storage = store.KindSQLite
	return SetupStack(t, cfg)
}

// RegisterUser creates an account with TestPassword and returns its token
func (s *Stack) RegisterUser(t *testing.T, username string) string {
	t.Helper()
	session, err := s.Gateway.Register(context.Background(), username, TestPassword, TestPassword)
	if err != nil {
		t.Fatalf("Failed to register %s: %v", username, err)
	}
	return session.Token
}

// CreatePoll stores a two-question poll for owner, activating it if asked
func (s *Stack) CreatePoll(t *testing.T, owner, title string, active bool) models.Poll {
	t.Helper()
	ctx := context.Background()

	poll, err := s.Manager.Create(ctx, owner, SamplePollInput(title))
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	if active && !poll.IsActive {
		poll, err = s.Manager.Activate(ctx, owner, poll.ID)
		if err != nil {
			t.Fatalf("Failed to activate test poll: %v", err)
		}
	}
	return poll
}

// SamplePollInput has question 0 (Pizza, Sushi, Tacos) and question 1 (Yes, No).
func SamplePollInput(title string) models.PollInput {
	return models.PollInput{
		Title: title,
		Questions: []models.QuestionInput{
			{Text: "Lunch?", Answers: []models.AnswerInput{{Text: "Pizza"}, {Text: "Sushi"}, {Text: "Tacos"}}},
			{Text: "Dessert?", Answers: []models.AnswerInput{{Text: "Yes"}, {Text: "No"}}},
		},
	}
}

// BearerHeader returns headers authenticating as the token's owner
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
