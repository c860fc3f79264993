package catalog

import (
	"errors"
)

// ErrNotFound is returned when neither the work lookup nor the title
// fallback finds a book.
var ErrNotFound = errors.New("book not found")

// ErrNoFilters is returned when a search carries no non-empty filter.
var ErrNoFilters = errors.New("at least one search parameter is required (title, author, language, or year)")

const (
	DefaultPage  = 1
	DefaultLimit = 20

	// MaxAuthorDetails bounds the author fan-out of a detail request.
	MaxAuthorDetails = 5
	// MaxDescriptionLength is counted in characters, not bytes.
	MaxDescriptionLength = 500
)

// BookSummary is one normalized search hit.
type BookSummary struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	FirstPublishYear *int     `json:"first_publish_year"`
	Language         []string `json:"language"`
	CoverURL         *string  `json:"coverUrl"`
	EditionKeys      []string `json:"edition_key"`
	WorkID           *string  `json:"work_id"`
}

// SearchParams echoes the filters a search was made with; empty filters are null.
type SearchParams struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Language *string `json:"language"`
	Year     *string `json:"year"`
}

type SearchResult struct {
	Books        []BookSummary `json:"books"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"totalPages"`
	SearchParams SearchParams  `json:"searchParams"`
}

// AuthorSummary is a resolved author reference.
type AuthorSummary struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	PersonalName *string `json:"personal_name"`
}

// BookDetail is a normalized work record, enriched with author names.
type BookDetail struct {
	Key              string          `json:"key"`
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Authors          []string        `json:"authors"`
	Subjects         []string        `json:"subjects"`
	SubjectPlaces    []string        `json:"subject_places"`
	SubjectTimes     []string        `json:"subject_times"`
	FirstPublishDate *string         `json:"first_publish_date"`
	Created          *string         `json:"created"`
	LastModified     *string         `json:"last_modified"`
	Covers           []int64         `json:"covers"`
	CoverURL         *string         `json:"coverUrl"`
	AuthorDetails    []AuthorSummary `json:"authorDetails"`
}
