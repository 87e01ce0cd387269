// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/models"
)

var (
	ownerPattern      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	resultNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,250}\.json$`)
)

// hasTraversal reports whether s could escape a directory when joined to it.
func hasTraversal(s string) bool {
	return strings.Contains(s, "..") || strings.ContainsAny(s, "/\\\x00")
}

// ValidateOwner checks that a username is safe to use as a storage key.
func ValidateOwner(owner string) error {
	if !ownerPattern.MatchString(owner) {
		return fmt.Errorf("owner %q: %w", owner, models.ErrInvalidPath)
	}
	return nil
}

// ValidatePollID accepts only canonical lowercase UUIDs.
func ValidatePollID(id string) error {
	if id == "" || hasTraversal(id) {
		return fmt.Errorf("poll id %q: %w", id, models.ErrInvalidPath)
	}
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return fmt.Errorf("poll id %q: %w", id, models.ErrInvalidPath)
	}
	return nil
}

// ValidateResultName accepts plain .json file names with no directory parts.
func ValidateResultName(name string) error {
	if hasTraversal(name) || !resultNamePattern.MatchString(name) {
		return fmt.Errorf("result name %q: %w", name, models.ErrInvalidPath)
	}
	return nil
}

// within joins elem onto base and fails unless the result stays strictly
// inside base.
func within(base string, elem ...string) (string, error) {
	p := filepath.Join(append([]string{base}, elem...)...)
	rel, err := filepath.Rel(base, p)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q: %w", p, models.ErrInvalidPath)
	}
	return p, nil
}
