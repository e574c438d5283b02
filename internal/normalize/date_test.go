// internal/normalize/date_test.go
package normalize

import (
	"testing"
	"time"
)

func TestParseArticleDate(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "published prefix",
			input:    "Published March 14, 2026 by Staff Reporter",
			expected: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "literal full month",
			input:    "March 14, 2026",
			expected: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "literal abbreviated month with period",
			input:    "Mar. 14, 2026",
			expected: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "sept abbreviation",
			input:    "Sept 3, 2026",
			expected: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "relative days",
			input:    "3 days ago",
			expected: now.AddDate(0, 0, -3),
			ok:       true,
		},
		{
			name:     "relative single hour",
			input:    "1 hour ago",
			expected: now.Add(-time.Hour),
			ok:       true,
		},
		{
			name:     "relative weeks",
			input:    "2 weeks ago",
			expected: now.AddDate(0, 0, -14),
			ok:       true,
		},
		{
			name:     "slash format",
			input:    "03/14/2026",
			expected: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "rfc3339",
			input:    "2026-03-14T09:30:00Z",
			expected: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "bare iso date",
			input:    "2026-03-14",
			expected: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "unparseable falls back to now",
			input:    "sometime last spring",
			expected: now,
			ok:       false,
		},
		{
			name:     "empty falls back to now",
			input:    "",
			expected: now,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArticleDate(tt.input, now)
			if ok != tt.ok {
				t.Fatalf("ParseArticleDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseArticleDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseArticleDatePublishedBeatsRelative(t *testing.T) {
	// When both a literal and a relative phrase appear, the literal wins.
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	got, ok := ParseArticleDate("Published June 1, 2026 | updated 2 days ago", now)
	if !ok {
		t.Fatal("expected a parse")
	}
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
