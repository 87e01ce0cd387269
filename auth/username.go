// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/livepoll/models"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername trims name and checks it against the username rules.
// The trimmed name is returned so callers store exactly what was checked.
func ValidateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	switch {
	case n < MinUsernameLength:
		return "", models.NewValidationError("username", "must be at least %d characters", MinUsernameLength)
	case n > MaxUsernameLength:
		return "", models.NewValidationError("username", "must be at most %d characters", MaxUsernameLength)
	case !usernameChars.MatchString(name):
		return "", models.NewValidationError("username", "may only contain letters, digits, '_' and '-'")
	}
	return name, nil
}
