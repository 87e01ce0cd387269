// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

const (
	// TimestampLayout is the UTC, filename-safe timestamp embedded in names.
	TimestampLayout = "2006-01-02T15-04-05.000"

	maxSlugLength = 50
	fallbackSlug  = "untitled"
)

var (
	namePattern = regexp.MustCompile(
		`^([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})-([A-Za-z0-9_-]+)-(\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.\d{3})\.json$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Slug turns a poll title into an ASCII file-name fragment: accents are
// stripped, any Unicode space counts as a space, anything outside
// [A-Za-z0-9_ -] is dropped, whitespace runs become '-', and the result is
// cut to 50 characters.
func Slug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, title)
	if err != nil {
		s = title
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)),
			r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			// NBSP, \v and friends fall outside \s.
			b.WriteByte(' ')
		}
	}

	slug := whitespaceRun.ReplaceAllString(strings.TrimSpace(b.String()), "-")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// Name builds "<pollID>-<slug>-<timestamp>.json".
func Name(pollID, title string, at time.Time) string {
	return pollID + "-" + Slug(title) + "-" + at.UTC().Format(TimestampLayout) + ".json"
}

// ParsedName is the decoded form of an artifact name.
type ParsedName struct {
	PollID    string
	Slug      string
	CreatedAt time.Time
}

// ParseName validates name and splits it into its parts. Anything that is
// not an artifact name, including traversal attempts, is ErrInvalidPath.
func ParseName(name string) (ParsedName, error) {
	if err := store.ValidateResultName(name); err != nil {
		return ParsedName{}, err
	}
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return ParsedName{}, fmt.Errorf("result name %q: %w", name, models.ErrInvalidPath)
	}
	at, err := time.Parse(TimestampLayout, m[3])
	if err != nil {
		return ParsedName{}, fmt.Errorf("result name %q: %w", name, models.ErrInvalidPath)
	}
	return ParsedName{PollID: m[1], Slug: m[2], CreatedAt: at}, nil
}

// DownloadName strips the poll id: "<slug>-<timestamp>.json".
func DownloadName(name string) (string, error) {
	p, err := ParseName(name)
	if err != nil {
		return "", err
	}
	return p.Slug + "-" + p.CreatedAt.Format(TimestampLayout) + ".json", nil
}

// LiveDownloadName names an on-demand export generated at the given time.
func LiveDownloadName(at time.Time) string {
	return "live-results-" + at.UTC().Format("2006-01-02") + ".json"
}
