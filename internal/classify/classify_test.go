// internal/classify/classify_test.go
package classify

import (
	"testing"

	"github.com/townhub/communityscraper/internal/config"
)

func newTestClassifier() *Classifier {
	cfg := config.Default()
	return New(cfg.Classifier)
}

func TestClassifyTitleFirst(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		title    string
		body     string
		expected string
	}{
		{
			name:     "title keyword wins",
			title:    "Hockey Team Wins Provincial Title",
			body:     "The city council congratulated the team.",
			expected: "sports",
		},
		{
			name:     "government title",
			title:    "Council Passes New Bylaw",
			body:     "",
			expected: "government",
		},
		{
			name:     "content rule when title silent",
			title:    "Local Update",
			body:     "The town council held a public hearing on the zoning change.",
			expected: "government",
		},
		{
			name:     "title rules against content as last resort",
			title:    "Weekend Roundup",
			body:     "Highlights from the museum and gallery opening downtown.",
			expected: "arts",
		},
		{
			name:     "fallback",
			title:    "Miscellany",
			body:     "Nothing categorizable here.",
			expected: "community",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title, tt.body)
			if got != tt.expected {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.title, tt.body, got, tt.expected)
			}
		})
	}
}

func TestClassifyRuleOrderResolvesOverlap(t *testing.T) {
	// "tournament" (sports) appears before "council" (government) in the
	// default rule order, so a title carrying both is sports.
	c := newTestClassifier()
	got := c.Classify("Council Sponsors Curling Tournament", "")
	if got != "sports" {
		t.Errorf("overlapping keywords resolved to %q, want %q", got, "sports")
	}
}

func TestClassifyCustomRules(t *testing.T) {
	c := New(config.ClassifierConfig{
		TitleRules: []config.KeywordRule{
			{Category: "alpha", Keywords: []string{"foo"}},
			{Category: "beta", Keywords: []string{"bar"}},
		},
		DefaultCategory: "other",
	})

	if got := c.Classify("foo and bar together", ""); got != "alpha" {
		t.Errorf("first rule should win, got %q", got)
	}
	if got := c.Classify("only bar", ""); got != "beta" {
		t.Errorf("got %q, want beta", got)
	}
	if got := c.Classify("neither", ""); got != "other" {
		t.Errorf("got %q, want other", got)
	}
}
