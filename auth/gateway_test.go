// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// renameOnly migrates by relocating the credential subtree, without touching
// poll documents.
type renameOnly struct{ creds *Credentials }

func (r renameOnly) RenameOwner(ctx context.Context, oldOwner, newOwner string) error {
	return r.creds.Rename(ctx, oldOwner, newOwner)
}

func newTestGateway(t *testing.T) (*Gateway, *Credentials) {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(filepath.Join(dir, "data"), filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	creds := NewCredentials(fs)
	return NewGateway(creds, NewSessions("test-secret", time.Hour), renameOnly{creds}), creds
}

func TestGatewayRegisterAndLogin(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	status, err := g.CheckUsername(ctx, "alice")
	if err != nil || status.Exists {
		t.Fatalf("CheckUsername() = %+v, %v; want not existing", status, err)
	}

	sess, err := g.Register(ctx, "alice", "secret1", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if sess.Username != "alice" || sess.Token == "" {
		t.Errorf("Register() = %+v", sess)
	}

	status, _ = g.CheckUsername(ctx, "alice")
	if !status.Exists {
		t.Error("CheckUsername() after register: Exists = false")
	}

	if _, err := g.Register(ctx, "alice", "secret1", "secret1"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("Register(duplicate) error = %v, want ErrConflict", err)
	}

	sess, err = g.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	user, err := g.Authenticate(ctx, sess.Token)
	if err != nil || user != "alice" {
		t.Errorf("Authenticate() = %q, %v; want alice", user, err)
	}

	if _, err := g.Login(ctx, "alice", "wrong!!"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Login(wrong password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := g.Login(ctx, "nobody", "secret1"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Login(unknown) error = %v, want ErrUnauthorized", err)
	}
}

func TestGatewayRegisterValidation(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
	}{
		{"short username", "al", "secret1", "secret1"},
		{"bad chars", "al ice", "secret1", "secret1"},
		{"short password", "alice", "12345", "12345"},
		{"mismatch", "alice", "secret1", "secret2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Register(ctx, tt.username, tt.password, tt.confirm)
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Register() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestGatewayChangePassword(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	if _, err := g.Register(ctx, "alice", "secret1", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := g.ChangePassword(ctx, "alice", "wrong", "secret2", "secret2"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("ChangePassword(wrong current) error = %v, want ErrUnauthorized", err)
	}
	if err := g.ChangePassword(ctx, "alice", "secret1", "short", "short"); err == nil {
		t.Error("ChangePassword(short) succeeded")
	}
	if err := g.ChangePassword(ctx, "alice", "secret1", "secret2", "secret2"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := g.Login(ctx, "alice", "secret1"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Login(old password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := g.Login(ctx, "alice", "secret2"); err != nil {
		t.Errorf("Login(new password) error = %v", err)
	}
}

func TestGatewayChangeUsername(t *testing.T) {
	g, creds := newTestGateway(t)
	ctx := context.Background()

	old, err := g.Register(ctx, "alice", "secret1", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := g.Register(ctx, "carol", "secret1", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := g.ChangeUsername(ctx, "alice", "carol", "secret1"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("ChangeUsername(taken) error = %v, want ErrConflict", err)
	}
	if _, err := g.ChangeUsername(ctx, "alice", "bob", "nope"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("ChangeUsername(wrong password) error = %v, want ErrUnauthorized", err)
	}

	sess, err := g.ChangeUsername(ctx, "alice", "bob", "secret1")
	if err != nil {
		t.Fatalf("ChangeUsername() error = %v", err)
	}
	if sess.Username != "bob" {
		t.Errorf("ChangeUsername() username = %q, want bob", sess.Username)
	}

	if _, err := g.Authenticate(ctx, old.Token); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Authenticate(old token) error = %v, want ErrUnauthorized", err)
	}
	if user, err := g.Authenticate(ctx, sess.Token); err != nil || user != "bob" {
		t.Errorf("Authenticate(new token) = %q, %v", user, err)
	}

	ok, err := creds.Verify(ctx, "bob", "secret1")
	if err != nil || !ok {
		t.Errorf("Verify(bob) = %v, %v; want true", ok, err)
	}
	if _, err := creds.Verify(ctx, "alice", "secret1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Verify(alice) error = %v, want ErrNotFound", err)
	}
}

// frozenUsers refuses to rewrite user records.
type frozenUsers struct{ *store.FileStore }

func (frozenUsers) UpdateUser(context.Context, models.User) error {
	return errors.New("read-only filesystem")
}

func TestCredentialsRenameRollsBack(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(filepath.Join(dir, "data"), filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	if err := NewCredentials(fs).Create(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	creds := NewCredentials(frozenUsers{fs})
	if err := creds.Rename(ctx, "alice", "bob"); err == nil {
		t.Fatal("Rename() succeeded despite a failed record rewrite")
	}

	if ok, _ := creds.Exists(ctx, "alice"); !ok {
		t.Error("alice is gone after a failed rename")
	}
	if ok, _ := creds.Exists(ctx, "bob"); ok {
		t.Error("bob exists after a failed rename")
	}
	if ok, err := creds.Verify(ctx, "alice", "secret1"); err != nil || !ok {
		t.Errorf("Verify(alice) = %v, %v; want true", ok, err)
	}
}
