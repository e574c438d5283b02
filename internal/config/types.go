// internal/config/types.go
package config

import "time"

// Config is the root configuration for a scrape run. Every empirically tuned
// knob in the pipeline (keyword rules, denylists, similarity threshold,
// politeness window) is data here, not control flow.
type Config struct {
	Politeness PolitenessConfig `yaml:"politeness"`
	Retry      RetryConfig      `yaml:"retry"`
	Retention  RetentionConfig  `yaml:"retention"`
	Matching   MatchingConfig   `yaml:"matching"`
	Parser     ParserConfig     `yaml:"parser"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Storage    StorageConfig    `yaml:"storage"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Report     ReportConfig     `yaml:"report"`
	Sources    []SourceConfig   `yaml:"sources"`
}

// PolitenessConfig governs how gently the fetcher treats source hosts.
type PolitenessConfig struct {
	MinDelay       time.Duration `yaml:"min_delay"`
	MaxDelay       time.Duration `yaml:"max_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second per fetcher
	RateBurst      int           `yaml:"rate_burst"`
	RespectRobots  bool          `yaml:"respect_robots"`
	UserAgents     []string      `yaml:"user_agents,omitempty"`
}

// RetryConfig governs the fetch retry loop.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxJitter   time.Duration `yaml:"max_jitter"`
}

// RetentionConfig governs store cleanup around a run.
type RetentionConfig struct {
	NewsMaxAgeDays      int  `yaml:"news_max_age_days"`
	PurgePastEvents     bool `yaml:"purge_past_events"`
	CleanupBeforeScrape bool `yaml:"cleanup_before_scrape"`
}

// MatchingConfig governs fuzzy duplicate detection.
type MatchingConfig struct {
	// AddressSimilarity is the minimum character-overlap ratio for two
	// addresses to be considered the same location. Empirically tuned.
	AddressSimilarity float64           `yaml:"address_similarity"`
	StreetSynonyms    map[string]string `yaml:"street_synonyms,omitempty"`
}

// ParserConfig carries the denylists the business blob parser depends on.
// These are heuristic and expected to be adjusted without code changes.
type ParserConfig struct {
	BusinessSuffixes    []string `yaml:"business_suffixes,omitempty"`
	CommonBusinessNouns []string `yaml:"common_business_nouns,omitempty"`
	PlaceholderNames    []string `yaml:"placeholder_names,omitempty"`
	Cities              []string `yaml:"cities,omitempty"`
	Provinces           []string `yaml:"provinces,omitempty"`
}

// KeywordRule maps keywords to a category. Rule order is significant: the
// first rule whose keyword matches wins.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// ClassifierConfig holds the priority-ordered keyword rules.
type ClassifierConfig struct {
	TitleRules      []KeywordRule `yaml:"title_rules,omitempty"`
	ContentRules    []KeywordRule `yaml:"content_rules,omitempty"`
	DefaultCategory string        `yaml:"default_category"`
}

// ExtractionConfig holds the content-quality gates shared by sources.
type ExtractionConfig struct {
	MinContentLength    int      `yaml:"min_content_length"`
	BoilerplatePatterns []string `yaml:"boilerplate_patterns,omitempty"`
	NavTitlePatterns    []string `yaml:"nav_title_patterns,omitempty"`
}

// StorageConfig points at the persistence collaborator.
type StorageConfig struct {
	URI         string            `yaml:"uri"`
	Database    string            `yaml:"database"`
	Collections CollectionsConfig `yaml:"collections"`
	Timeout     time.Duration     `yaml:"timeout"`
	SnapshotTTL time.Duration     `yaml:"snapshot_ttl"`
}

// CollectionsConfig names the per-category collections.
type CollectionsConfig struct {
	Businesses string `yaml:"businesses"`
	News       string `yaml:"news"`
	Events     string `yaml:"events"`
}

// MonitoringConfig controls the metrics/health endpoint.
type MonitoringConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
	MetricsPath   string `yaml:"metrics_path"`
}

// ReportConfig controls run-summary export.
type ReportConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Directory string   `yaml:"directory"`
	Formats   []string `yaml:"formats,omitempty"` // json, csv, xlsx
}

// SourceConfig describes one scraped website.
type SourceConfig struct {
	Name       string          `yaml:"name"`
	Category   string          `yaml:"category"` // business | news | event
	URL        string          `yaml:"url"`
	SourceName string          `yaml:"source_name"`
	MaxItems   int             `yaml:"max_items"`
	Selectors  SelectorsConfig `yaml:"selectors"`
}

// SelectorsConfig holds the per-source locator cascades. For each field the
// first selector yielding non-empty text wins.
type SelectorsConfig struct {
	Listing string `yaml:"listing,omitempty"` // index-page entry container
	Link    string `yaml:"link,omitempty"`    // detail link within an entry
	Blob    string `yaml:"blob,omitempty"`    // business directory text blob

	Title     []string `yaml:"title,omitempty"`
	Body      []string `yaml:"body,omitempty"`
	Date      []string `yaml:"date,omitempty"`
	Author    []string `yaml:"author,omitempty"`
	Image     []string `yaml:"image,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	Location  []string `yaml:"location,omitempty"`
	Time      []string `yaml:"time,omitempty"`
	Price     []string `yaml:"price,omitempty"`
	Organizer []string `yaml:"organizer,omitempty"`
}
