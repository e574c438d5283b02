// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// Default returns a fully defaulted configuration with no sources.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Politeness.MinDelay > c.Politeness.MaxDelay {
		return fmt.Errorf("politeness: min_delay %v exceeds max_delay %v",
			c.Politeness.MinDelay, c.Politeness.MaxDelay)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry: max_attempts must be at least 1")
	}
	if c.Matching.AddressSimilarity <= 0 || c.Matching.AddressSimilarity > 1 {
		return fmt.Errorf("matching: address_similarity must be in (0, 1], got %v",
			c.Matching.AddressSimilarity)
	}
	if c.Retention.NewsMaxAgeDays < 1 {
		return fmt.Errorf("retention: news_max_age_days must be positive")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return fmt.Errorf("sources[%d]: name cannot be empty", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("sources[%d]: duplicate source name %q", i, src.Name)
		}
		seen[src.Name] = true

		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("source %q: url cannot be empty", src.Name)
		}
		switch src.Category {
		case "business", "news", "event":
		default:
			return fmt.Errorf("source %q: unknown category %q", src.Name, src.Category)
		}
		if src.Category == "business" && src.Selectors.Blob == "" && src.Selectors.Listing == "" {
			return fmt.Errorf("source %q: business sources need a blob or listing selector", src.Name)
		}
	}

	for _, format := range c.Report.Formats {
		switch format {
		case "json", "csv", "xlsx":
		default:
			return fmt.Errorf("report: unsupported format %q", format)
		}
	}

	return nil
}

// ApplyDefaults fills every zero-valued knob with its compiled-in default.
// Source lists are not defaulted; an empty source list is a valid (no-op)
// configuration.
func ApplyDefaults(cfg *Config) {
	if cfg.Politeness.MinDelay == 0 {
		cfg.Politeness.MinDelay = 200 * time.Millisecond
	}
	if cfg.Politeness.MaxDelay == 0 {
		cfg.Politeness.MaxDelay = 600 * time.Millisecond
	}
	if cfg.Politeness.RequestTimeout == 0 {
		cfg.Politeness.RequestTimeout = 30 * time.Second
	}
	if cfg.Politeness.MaxBodyBytes == 0 {
		cfg.Politeness.MaxBodyBytes = 5 << 20 // 5 MiB
	}
	if cfg.Politeness.RateLimit == 0 {
		cfg.Politeness.RateLimit = 1.0
	}
	if cfg.Politeness.RateBurst == 0 {
		cfg.Politeness.RateBurst = 1
	}
	if len(cfg.Politeness.UserAgents) == 0 {
		cfg.Politeness.UserAgents = defaultUserAgents()
	}

	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 4
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = 500 * time.Millisecond
	}
	if cfg.Retry.MaxJitter == 0 {
		cfg.Retry.MaxJitter = 300 * time.Millisecond
	}

	if cfg.Retention.NewsMaxAgeDays == 0 {
		cfg.Retention.NewsMaxAgeDays = 14
	}

	if cfg.Matching.AddressSimilarity == 0 {
		cfg.Matching.AddressSimilarity = 0.80
	}
	if len(cfg.Matching.StreetSynonyms) == 0 {
		cfg.Matching.StreetSynonyms = defaultStreetSynonyms()
	}

	if len(cfg.Parser.BusinessSuffixes) == 0 {
		cfg.Parser.BusinessSuffixes = defaultBusinessSuffixes()
	}
	if len(cfg.Parser.CommonBusinessNouns) == 0 {
		cfg.Parser.CommonBusinessNouns = defaultCommonBusinessNouns()
	}
	if len(cfg.Parser.PlaceholderNames) == 0 {
		cfg.Parser.PlaceholderNames = defaultPlaceholderNames()
	}
	if len(cfg.Parser.Cities) == 0 {
		cfg.Parser.Cities = defaultCities()
	}
	if len(cfg.Parser.Provinces) == 0 {
		cfg.Parser.Provinces = defaultProvinces()
	}

	if len(cfg.Classifier.TitleRules) == 0 {
		cfg.Classifier.TitleRules = defaultTitleRules()
	}
	if len(cfg.Classifier.ContentRules) == 0 {
		cfg.Classifier.ContentRules = defaultContentRules()
	}
	if cfg.Classifier.DefaultCategory == "" {
		cfg.Classifier.DefaultCategory = "community"
	}

	if cfg.Extraction.MinContentLength == 0 {
		cfg.Extraction.MinContentLength = 50
	}
	if len(cfg.Extraction.BoilerplatePatterns) == 0 {
		cfg.Extraction.BoilerplatePatterns = defaultBoilerplatePatterns()
	}
	if len(cfg.Extraction.NavTitlePatterns) == 0 {
		cfg.Extraction.NavTitlePatterns = defaultNavTitlePatterns()
	}

	if cfg.Storage.URI == "" {
		cfg.Storage.URI = "mongodb://localhost:27017"
	}
	if cfg.Storage.Database == "" {
		cfg.Storage.Database = "communityhub"
	}
	if cfg.Storage.Collections.Businesses == "" {
		cfg.Storage.Collections.Businesses = "businesses"
	}
	if cfg.Storage.Collections.News == "" {
		cfg.Storage.Collections.News = "news"
	}
	if cfg.Storage.Collections.Events == "" {
		cfg.Storage.Collections.Events = "events"
	}
	if cfg.Storage.Timeout == 0 {
		cfg.Storage.Timeout = 15 * time.Second
	}
	if cfg.Storage.SnapshotTTL == 0 {
		cfg.Storage.SnapshotTTL = 10 * time.Minute
	}

	if cfg.Monitoring.ListenAddress == "" {
		cfg.Monitoring.ListenAddress = ":9090"
	}
	if cfg.Monitoring.MetricsPath == "" {
		cfg.Monitoring.MetricsPath = "/metrics"
	}

	if cfg.Report.Directory == "" {
		cfg.Report.Directory = "reports"
	}
	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{"json"}
	}
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	}
}

func defaultStreetSynonyms() map[string]string {
	return map[string]string{
		"street":    "st",
		"avenue":    "ave",
		"av":        "ave",
		"road":      "rd",
		"drive":     "dr",
		"boulevard": "blvd",
		"crescent":  "cres",
		"highway":   "hwy",
		"lane":      "ln",
		"court":     "crt",
		"ct":        "crt",
		"place":     "pl",
		"trail":     "trl",
		"terrace":   "terr",
		"close":     "cl",
	}
}

func defaultBusinessSuffixes() []string {
	return []string{
		"Ltd", "Inc", "Corp", "Co", "Company", "Services", "Service",
		"Shop", "Store", "Restaurant", "Cafe", "Bakery", "Grill", "Pub",
		"Repair", "Auto", "Motors", "Towing", "Salon", "Spa", "Barber",
		"Clinic", "Pharmacy", "Dental", "Veterinary", "Chiropractic",
		"Contracting", "Construction", "Plumbing", "Electric", "Electrical",
		"Welding", "Roofing", "Landscaping", "Supplies", "Supply",
		"Center", "Centre", "Agency", "Insurance", "Realty", "Rentals",
		"Hotel", "Motel", "Greenhouse", "Farms", "Accounting", "Law",
	}
}

func defaultCommonBusinessNouns() []string {
	return []string{
		"Services", "Service", "Repair", "Repairs", "Shop", "Store",
		"Supplies", "Supply", "Solutions", "Systems", "Sales", "Rentals",
		"Group", "Associates", "Enterprises", "Holdings", "Industries",
		"Cleaning", "Installations", "Maintenance",
	}
}

func defaultPlaceholderNames() []string {
	return []string{
		"Wetaskiwin", "Business", "Businesses", "Company", "Pizza",
		"Food", "Restaurant", "Store", "Shop", "Directory", "Listing",
	}
}

func defaultCities() []string {
	return []string{
		"Wetaskiwin", "Millet", "Camrose", "Leduc", "Edmonton",
		"Gwynne", "Falun", "Winfield", "Ma-Me-O Beach", "Mulhurst Bay",
	}
}

func defaultProvinces() []string {
	return []string{"AB", "Alberta", "SK", "Saskatchewan", "BC", "British Columbia", "MB", "Manitoba"}
}

// defaultTitleRules are evaluated against the title alone, in order. Order
// resolves overlaps deterministically: sports before government before
// business. Changing the order changes classifications across runs.
func defaultTitleRules() []KeywordRule {
	return []KeywordRule{
		{Category: "sports", Keywords: []string{
			"sports", "hockey", "baseball", "curling", "golf", "football",
			"soccer", "rodeo", "lacrosse", "tournament", "playoffs",
		}},
		{Category: "government", Keywords: []string{
			"council", "city hall", "mayor", "bylaw", "municipal",
			"election", "province", "legislature", "county",
		}},
		{Category: "business", Keywords: []string{
			"business", "economy", "economic", "retail", "entrepreneur",
			"grand opening", "chamber of commerce",
		}},
		{Category: "health", Keywords: []string{
			"health", "hospital", "clinic", "wellness", "ahs",
		}},
		{Category: "education", Keywords: []string{
			"school", "education", "students", "teachers", "college",
		}},
		{Category: "arts", Keywords: []string{
			"arts", "culture", "music", "theatre", "festival", "concert",
			"museum", "gallery",
		}},
	}
}

// defaultContentRules run against title+body only when no title rule fires.
// Same families, finer keywords.
func defaultContentRules() []KeywordRule {
	return []KeywordRule{
		{Category: "sports", Keywords: []string{
			"game winning", "season opener", "coach", "arena", "rink",
			"standings", "championship", "athlete",
		}},
		{Category: "government", Keywords: []string{
			"city council", "town council", "public hearing", "zoning",
			"property tax", "budget deliberation", "councillor", "reeve",
		}},
		{Category: "business", Keywords: []string{
			"new location", "storefront", "local business", "shop local",
			"ribbon cutting", "now hiring",
		}},
		{Category: "health", Keywords: []string{
			"public health", "vaccination", "emergency room", "long-term care",
			"mental health",
		}},
		{Category: "education", Keywords: []string{
			"school board", "school division", "graduation", "curriculum",
			"classroom",
		}},
		{Category: "arts", Keywords: []string{
			"performance", "exhibit", "live music", "art show", "choir",
		}},
	}
}

func defaultBoilerplatePatterns() []string {
	return []string{
		"subscribe", "advertisement", "sponsored content", "sponsored by",
		"sign up for", "newsletter", "read more", "share this",
		"related articles", "related stories", "trending now",
		"follow us", "cookie", "privacy policy", "terms of use",
		"support local journalism", "comments are closed", "click here",
	}
}

func defaultNavTitlePatterns() []string {
	return []string{
		`^home$`, `^news$`, `^sports$`, `^events$`, `^obituaries$`,
		`^contact( us)?$`, `^about( us)?$`, `^archives?$`,
		`^more stories$`, `^page \d+$`, `^category:`, `^section:`,
	}
}
