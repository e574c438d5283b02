// internal/normalize/date.go
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date parsing recovers absolute timestamps from the heterogeneous strings
// the source sites publish. Strategies run in a fixed order, most specific
// first; when everything fails the caller gets the current time with a
// degraded flag so a bad byline never kills a record.

var (
	monthName = `(?:January|February|March|April|May|June|July|August|September|October|November|December|` +
		`Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)`

	publishedPattern = regexp.MustCompile(`(?i)Published\s+(` + monthName + `\.?\s+\d{1,2},?\s+\d{4})`)
	literalPattern   = regexp.MustCompile(`(?i)\b(` + monthName + `)\.?\s+(\d{1,2}),?\s+(\d{4})`)
	relativePattern  = regexp.MustCompile(`(?i)\b(\d+)\s+(hour|day|week)s?\s+ago`)
	slashPattern     = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseArticleDate converts a raw date-like string into an absolute UTC
// timestamp. The second return value is false when no strategy recognized the
// input and the current time was substituted.
func ParseArticleDate(raw string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now, false
	}

	// 1. "Published Month D, YYYY ..." with the literal date embedded.
	if m := publishedPattern.FindStringSubmatch(s); m != nil {
		if t, ok := parseLiteralDate(m[1]); ok {
			return t, true
		}
	}

	// 2. Bare "Month D, YYYY".
	if t, ok := parseLiteralDate(s); ok {
		return t, true
	}

	// 3. Relative "N hours/days/weeks ago".
	if m := relativePattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			switch strings.ToLower(m[2]) {
			case "hour":
				return now.Add(-time.Duration(n) * time.Hour), true
			case "day":
				return now.AddDate(0, 0, -n), true
			case "week":
				return now.AddDate(0, 0, -7*n), true
			}
		}
	}

	// 4. "MM/DD/YYYY".
	if m := slashPattern.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}

	// 5. ISO date or full timestamp.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}

	// 6. Generic fallback layouts seen in the wild.
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC1123, time.RFC1123Z, time.RFC822,
		"2 January 2006", "January 2 2006", "Jan 2 2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return now, false
}

// parseLiteralDate parses "Month D, YYYY" with full or abbreviated month
// names, optional comma and period.
func parseLiteralDate(s string) (time.Time, bool) {
	m := literalPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	prefix := strings.ToLower(m[1])
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	month, ok := monthsByPrefix[prefix]
	if !ok {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
