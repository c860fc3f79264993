package openlibrary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CoversBaseURL serves cover images by numeric id.
const CoversBaseURL = "https://covers.openlibrary.org"

// Cover image sizes.
const (
	CoverMedium = "M"
	CoverLarge  = "L"
)

// CoverURL builds the image URL for a cover id. Non-positive ids have no image.
func CoverURL(coverID int64, size string) *string {
	if coverID <= 0 {
		return nil
	}
	u := fmt.Sprintf("%s/b/id/%d-%s.jpg", CoversBaseURL, coverID, size)
	return &u
}

// SearchDoc is one entry of search.json "docs".
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	AuthorKeys       []string `json:"author_key"`
	FirstPublishYear *int     `json:"first_publish_year"`
	Language         []string `json:"language"`
	CoverID          int64    `json:"cover_i"`
	EditionKeys      []string `json:"edition_key"`
	WorkID           *string  `json:"work_id"`
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// Text decodes fields the catalog sends either as a plain string or as a
// typed object such as {"type": "/type/text", "value": "..."}.
type Text struct {
	Value string
	Set   bool
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Set: true}
		return nil
	}
	var typed struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	if typed.Value == nil {
		*t = Text{}
		return nil
	}
	*t = Text{Value: *typed.Value, Set: true}
	return nil
}

// Ptr returns nil when the field was absent or null.
func (t Text) Ptr() *string {
	if !t.Set {
		return nil
	}
	v := t.Value
	return &v
}

// Work matches works/{id}.json
type Work struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description Text   `json:"description"`
	Authors     []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
	Subjects         []string `json:"subjects"`
	SubjectPlaces    []string `json:"subject_places"`
	SubjectTimes     []string `json:"subject_times"`
	FirstPublishDate *string  `json:"first_publish_date"`
	Created          Text     `json:"created"`
	LastModified     Text     `json:"last_modified"`
	Covers           []int64  `json:"covers"`
}

// AuthorKeys lists the author references in catalog order, skipping blanks.
func (w *Work) AuthorKeys() []string {
	keys := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		if k := strings.TrimSpace(a.Author.Key); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Author matches authors/{key}.json
type Author struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	PersonalName *string `json:"personal_name"`
}
