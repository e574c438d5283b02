// internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	yaml := `
sources:
  - name: city-news
    category: news
    url: https://example.com/news
    source_name: City Times
    selectors:
      listing: ".article-item"
      link: "a"
      title: ["h1.headline"]
      body: [".article-body"]
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if cfg.Politeness.MinDelay != 200*time.Millisecond {
		t.Errorf("MinDelay = %v, want 200ms", cfg.Politeness.MinDelay)
	}
	if cfg.Politeness.MaxDelay != 600*time.Millisecond {
		t.Errorf("MaxDelay = %v, want 600ms", cfg.Politeness.MaxDelay)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay != 500*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 500ms", cfg.Retry.BaseDelay)
	}
	if cfg.Retention.NewsMaxAgeDays != 14 {
		t.Errorf("NewsMaxAgeDays = %d, want 14", cfg.Retention.NewsMaxAgeDays)
	}
	if cfg.Matching.AddressSimilarity != 0.80 {
		t.Errorf("AddressSimilarity = %v, want 0.80", cfg.Matching.AddressSimilarity)
	}
	if len(cfg.Classifier.TitleRules) == 0 {
		t.Error("default title rules missing")
	}
	if len(cfg.Parser.BusinessSuffixes) == 0 {
		t.Error("default business suffixes missing")
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "city-news" {
		t.Errorf("sources not preserved: %+v", cfg.Sources)
	}
}

func TestLoadFromBytesOverrides(t *testing.T) {
	yaml := `
politeness:
  min_delay: 50ms
  max_delay: 100ms
retry:
  max_attempts: 2
matching:
  address_similarity: 0.9
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if cfg.Politeness.MinDelay != 50*time.Millisecond {
		t.Errorf("MinDelay = %v, want 50ms", cfg.Politeness.MinDelay)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", cfg.Retry.MaxAttempts)
	}
	if cfg.Matching.AddressSimilarity != 0.9 {
		t.Errorf("AddressSimilarity = %v, want 0.9", cfg.Matching.AddressSimilarity)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "min delay above max",
			mutate: func(c *Config) {
				c.Politeness.MinDelay = time.Second
				c.Politeness.MaxDelay = time.Millisecond
			},
			wantErr: "min_delay",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: "max_attempts",
		},
		{
			name:    "similarity above one",
			mutate:  func(c *Config) { c.Matching.AddressSimilarity = 1.5 },
			wantErr: "address_similarity",
		},
		{
			name: "duplicate source names",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{
					{Name: "dup", Category: "news", URL: "https://a.example.com", Selectors: SelectorsConfig{Listing: "li"}},
					{Name: "dup", Category: "news", URL: "https://b.example.com", Selectors: SelectorsConfig{Listing: "li"}},
				}
			},
			wantErr: "duplicate source name",
		},
		{
			name: "unknown category",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Name: "x", Category: "weather", URL: "https://a.example.com"}}
			},
			wantErr: "unknown category",
		},
		{
			name: "business without blob selector",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Name: "x", Category: "business", URL: "https://a.example.com"}}
			},
			wantErr: "blob or listing",
		},
		{
			name:    "bad report format",
			mutate:  func(c *Config) { c.Report.Formats = []string{"pdf"} },
			wantErr: "unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SCRAPER_DB", "communitytest")
	yaml := `
storage:
  database: ${TEST_SCRAPER_DB}
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if cfg.Storage.Database != "communitytest" {
		t.Errorf("Database = %q, want env expansion", cfg.Storage.Database)
	}
}
