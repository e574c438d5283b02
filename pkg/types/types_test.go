// pkg/types/types_test.go
package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCategoryValid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"business", CategoryBusiness, true},
		{"news", CategoryNews, true},
		{"event", CategoryEvent, true},
		{"unknown", Category("podcast"), false},
		{"empty", Category(""), false},
		{"case sensitive", Category("News"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Valid(); got != tt.want {
				t.Errorf("Category(%q).Valid() = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestRunResultMerge(t *testing.T) {
	r := &RunResult{
		Total:   3,
		New:     1,
		Updated: 1,
		Deleted: 0,
		Errors:  []RunError{{Source: "city-news", Message: "fetch failed"}},
	}

	r.Merge(&RunResult{
		Total:   5,
		New:     2,
		Updated: 1,
		Deleted: 4,
		Errors: []RunError{
			{Source: "chamber-directory", Item: "blob 12", Message: "no name"},
		},
	})

	if r.Total != 8 || r.New != 3 || r.Updated != 2 || r.Deleted != 4 {
		t.Errorf("after Merge: Total=%d New=%d Updated=%d Deleted=%d, want 8/3/2/4",
			r.Total, r.New, r.Updated, r.Deleted)
	}
	if len(r.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(r.Errors))
	}
	if r.Errors[1].Source != "chamber-directory" {
		t.Errorf("Errors[1].Source = %q, want %q", r.Errors[1].Source, "chamber-directory")
	}
}

func TestRunResultMergeNil(t *testing.T) {
	r := &RunResult{Total: 2, New: 1}
	r.Merge(nil)
	if r.Total != 2 || r.New != 1 {
		t.Errorf("Merge(nil) mutated result: Total=%d New=%d", r.Total, r.New)
	}
}

func TestScrapedBusinessJSON(t *testing.T) {
	b := ScrapedBusiness{
		ID:        "tim-hortons-123",
		Name:      "Tim Hortons",
		Address:   "123 Main St, Wetaskiwin, AB T9A 1A1",
		SourceURL: "https://example.com/directory",
		ScrapedAt: time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)

	for _, key := range []string{`"id"`, `"name"`, `"address"`, `"source_url"`, `"scraped_at"`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled business missing key %s: %s", key, s)
		}
	}
	// Empty optional fields stay out of the platform payload.
	for _, key := range []string{`"contact"`, `"phone"`, `"website"`, `"category"`} {
		if strings.Contains(s, key) {
			t.Errorf("marshaled business should omit empty %s: %s", key, s)
		}
	}
}

func TestScrapedEventJSONOmitsEmptyEndDate(t *testing.T) {
	e := ScrapedEvent{
		ID:    "canada-day-parade-2026-07-01",
		Title: "Canada Day Parade",
		Date:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"end_date"`) {
		t.Errorf("marshaled event should omit nil end_date: %s", data)
	}

	end := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	e.EndDate = &end
	data, err = json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal with end date: %v", err)
	}
	if !strings.Contains(string(data), `"end_date"`) {
		t.Errorf("marshaled event missing end_date: %s", data)
	}
}
