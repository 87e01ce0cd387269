// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. Changing them invalidates every stored hash.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// MinPasswordLength applies to new passwords only; login accepts whatever
// was stored.
const MinPasswordLength = 6

// HashPassword derives a salted scrypt hash in the form "salt:hexDigest".
func HashPassword(password string) (string, error) {
	salt := uuid.NewString()
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return salt + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches a hash produced by
// HashPassword. Malformed hashes never match.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := strings.Cut(stored, ":")
	if !ok || salt == "" {
		return false
	}
	want, err := hex.DecodeString(digest)
	if err != nil || len(want) != scryptKeyLen {
		return false
	}
	got, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
