// pkg/types/types.go
// Package types defines the record types produced by the scraping pipeline
// and consumed by the community content platform.
package types

import "time"

// Category identifies which content pipeline a source feeds.
type Category string

const (
	CategoryBusiness Category = "business"
	CategoryNews     Category = "news"
	CategoryEvent    Category = "event"
)

// Valid reports whether the category is one of the known pipelines.
func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategoryNews, CategoryEvent:
		return true
	}
	return false
}

// ScrapedBusiness is a normalized business directory record recovered from a
// concatenated listing blob.
type ScrapedBusiness struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Contact   string    `json:"contact,omitempty" bson:"contact,omitempty"`
	Address   string    `json:"address" bson:"address"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Website   string    `json:"website,omitempty" bson:"website,omitempty"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"`
	SourceURL string    `json:"source_url" bson:"source_url"`
	ScrapedAt time.Time `json:"scraped_at" bson:"scraped_at"`
}

// ScrapedNewsArticle is a normalized news article record.
type ScrapedNewsArticle struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Summary     string    `json:"summary" bson:"summary"`
	Content     string    `json:"content,omitempty" bson:"content,omitempty"`
	Category    string    `json:"category" bson:"category"`
	Author      string    `json:"author,omitempty" bson:"author,omitempty"`
	PublishedAt time.Time `json:"published_at" bson:"published_at"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	SourceURL   string    `json:"source_url" bson:"source_url"`
	SourceName  string    `json:"source_name" bson:"source_name"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at" bson:"scraped_at"`
}

// ScrapedEvent is a normalized community event record.
type ScrapedEvent struct {
	ID           string     `json:"id" bson:"_id"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	Date         time.Time  `json:"date" bson:"date"`
	EndDate      *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Time         string     `json:"time,omitempty" bson:"time,omitempty"`
	Location     string     `json:"location,omitempty" bson:"location,omitempty"`
	Category     string     `json:"category" bson:"category"`
	Organizer    string     `json:"organizer,omitempty" bson:"organizer,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	Website      string     `json:"website,omitempty" bson:"website,omitempty"`
	Price        string     `json:"price,omitempty" bson:"price,omitempty"`
	SourceURL    string     `json:"source_url,omitempty" bson:"source_url,omitempty"`
	SourceName   string     `json:"source_name,omitempty" bson:"source_name,omitempty"`
	ScrapedAt    time.Time  `json:"scraped_at" bson:"scraped_at"`
}

// ExistingBusiness is the {id, name, address} tuple the persistence
// collaborator supplies before a business run. The pipeline reads these for
// duplicate comparison and never mutates them.
type ExistingBusiness struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
}

// RunError records a single recovered failure during a run.
type RunError struct {
	Source  string `json:"source"`
	Item    string `json:"item,omitempty"`
	Message string `json:"message"`
}

// RunResult summarizes one orchestrator invocation. It is assembled at the
// category join point and immutable once returned.
type RunResult struct {
	Total     int           `json:"total"`
	New       int           `json:"new"`
	Updated   int           `json:"updated"`
	Deleted   int           `json:"deleted"`
	Errors    []RunError    `json:"errors,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Merge folds another result into r. Used when joining per-category results.
func (r *RunResult) Merge(other *RunResult) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.New += other.New
	r.Updated += other.Updated
	r.Deleted += other.Deleted
	r.Errors = append(r.Errors, other.Errors...)
}
