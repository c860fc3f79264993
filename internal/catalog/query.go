package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SearchQuery holds the filters and pagination of a search request.
// Filter values are forwarded verbatim; only their length is bounded.
type SearchQuery struct {
	Title    string `validate:"max=1000"`
	Author   string `validate:"max=1000"`
	Language string `validate:"max=1000"`
	Year     string `validate:"max=1000"`
	Page     int
	Limit    int
}

// ParseSearchQuery reads filters and pagination from URL query values.
// Unparsable or non-positive page/limit fall back to defaults.
func ParseSearchQuery(values url.Values) SearchQuery {
	q := SearchQuery{
		Title:    strings.TrimSpace(values.Get("title")),
		Author:   strings.TrimSpace(values.Get("author")),
		Language: strings.TrimSpace(values.Get("language")),
		Year:     strings.TrimSpace(values.Get("year")),
	}
	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.Limit, _ = strconv.Atoi(values.Get("limit"))
	return q.withPaging()
}

func (q SearchQuery) withPaging() SearchQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

// HasFilters reports whether at least one filter is non-blank.
func (q SearchQuery) HasFilters() bool {
	return strings.TrimSpace(q.Title) != "" ||
		strings.TrimSpace(q.Author) != "" ||
		strings.TrimSpace(q.Language) != "" ||
		strings.TrimSpace(q.Year) != ""
}

// Expression joins the non-blank filters into one catalog query,
// e.g. "title:dune AND first_publish_year:1965".
func (q SearchQuery) Expression() string {
	fields := []struct{ name, value string }{
		{"title", q.Title},
		{"author", q.Author},
		{"language", q.Language},
		{"first_publish_year", q.Year},
	}
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			tokens = append(tokens, f.name+":"+v)
		}
	}
	return strings.Join(tokens, " AND ")
}

// Params echoes the filters, with blank ones reported as null.
func (q SearchQuery) Params() SearchParams {
	return SearchParams{
		Title:    optional(q.Title),
		Author:   optional(q.Author),
		Language: optional(q.Language),
		Year:     optional(q.Year),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FieldError describes one rejected search filter.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when filters are present but malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return "invalid search parameters: " + strings.Join(parts, "; ")
}

func (q SearchQuery) validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		var message string
		switch fe.Tag() {
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: message})
	}
	return out
}

// TotalPages is ceil(total/limit); zero when limit is not positive.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
