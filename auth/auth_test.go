// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	salt, digest, ok := strings.Cut(hash, ":")
	if !ok {
		t.Fatalf("HashPassword() = %q, want salt:digest", hash)
	}
	if len(salt) != 36 {
		t.Errorf("salt length = %d, want 36 (UUID)", len(salt))
	}
	if len(digest) != scryptKeyLen*2 {
		t.Errorf("digest length = %d, want %d", len(digest), scryptKeyLen*2)
	}

	// Salts are random, so equal passwords hash differently
	hash2, _ := HashPassword("hunter22")
	if hash == hash2 {
		t.Error("HashPassword() produced identical hashes for two calls")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{"match", "correct horse", hash, true},
		{"mismatch", "battery staple", hash, false},
		{"empty password", "", hash, false},
		{"no separator", "correct horse", "nocolonhere", false},
		{"empty salt", "correct horse", ":" + strings.Repeat("ab", scryptKeyLen), false},
		{"bad hex", "correct horse", "salt:zzzz", false},
		{"short digest", "correct horse", "salt:abcd", false},
		{"empty", "correct horse", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.password, tt.stored); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "alice", "alice", false},
		{"trimmed", "  bob_01 ", "bob_01", false},
		{"dash", "a-b", "a-b", false},
		{"too short", "ab", "", true},
		{"too long", strings.Repeat("x", 33), "", true},
		{"max length", strings.Repeat("x", 32), strings.Repeat("x", 32), false},
		{"space inside", "al ice", "", true},
		{"dot", "al.ice", "", true},
		{"slash", "../etc", "", true},
		{"unicode", "élodie", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUsername(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateUsername(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				var ve *models.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error %v is not a *ValidationError", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSessions(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	got, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "alice" {
		t.Errorf("Parse() = %q, want alice", got)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessions("other-secret", time.Hour)
		if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		past := NewSessions("test-secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, err := past.Issue("alice")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if _, err := s.Parse(old); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(expired) error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := s.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(garbage) error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, "ip-salt")
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			if hash != HashIP(tt.ip, "ip-salt") {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, _ := HashPassword("benchmark")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		VerifyPassword("benchmark", hash)
	}
}
