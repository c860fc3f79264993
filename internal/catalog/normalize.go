package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"bookfinder/internal/platform/openlibrary"
)

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func summaryFromDoc(doc openlibrary.SearchDoc) BookSummary {
	return BookSummary{
		Key:              doc.Key,
		Title:            doc.Title,
		Authors:          nonNil(doc.AuthorNames),
		FirstPublishYear: doc.FirstPublishYear,
		Language:         nonNil(doc.Language),
		CoverURL:         openlibrary.CoverURL(doc.CoverID, openlibrary.CoverMedium),
		EditionKeys:      nonNil(doc.EditionKeys),
		WorkID:           nonBlank(doc.WorkID),
	}
}

func nonBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// NormalizeDescription accepts the plain and typed forms alike and truncates
// long text to MaxDescriptionLength characters followed by "...".
func NormalizeDescription(t openlibrary.Text) *string {
	if !t.Set || t.Value == "" {
		return nil
	}
	s := t.Value
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		s = string([]rune(s)[:MaxDescriptionLength]) + "..."
	}
	return &s
}

func firstCoverURL(covers []int64) *string {
	for _, id := range covers {
		if id > 0 {
			return openlibrary.CoverURL(id, openlibrary.CoverLarge)
		}
	}
	return nil
}

func detailFromWork(w *openlibrary.Work) *BookDetail {
	return &BookDetail{
		Key:              w.Key,
		Title:            w.Title,
		Description:      NormalizeDescription(w.Description),
		Authors:          w.AuthorKeys(),
		Subjects:         nonNil(w.Subjects),
		SubjectPlaces:    nonNil(w.SubjectPlaces),
		SubjectTimes:     nonNil(w.SubjectTimes),
		FirstPublishDate: w.FirstPublishDate,
		Created:          w.Created.Ptr(),
		LastModified:     w.LastModified.Ptr(),
		Covers:           nonNil(w.Covers),
		CoverURL:         firstCoverURL(w.Covers),
		AuthorDetails:    []AuthorSummary{},
	}
}

// detailFromDoc builds a detail record out of a title-search hit, used when
// the work itself could not be fetched.
func detailFromDoc(doc openlibrary.SearchDoc) *BookDetail {
	authors := make([]string, 0, len(doc.AuthorKeys))
	for _, k := range doc.AuthorKeys {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		if !strings.HasPrefix(k, "/authors/") {
			k = "/authors/" + k
		}
		authors = append(authors, k)
	}

	covers := []int64{}
	if doc.CoverID > 0 {
		covers = append(covers, doc.CoverID)
	}

	var firstPublish *string
	if doc.FirstPublishYear != nil {
		y := strconv.Itoa(*doc.FirstPublishYear)
		firstPublish = &y
	}

	return &BookDetail{
		Key:              doc.Key,
		Title:            doc.Title,
		Authors:          authors,
		Subjects:         []string{},
		SubjectPlaces:    []string{},
		SubjectTimes:     []string{},
		FirstPublishDate: firstPublish,
		Covers:           covers,
		CoverURL:         firstCoverURL(covers),
		AuthorDetails:    []AuthorSummary{},
	}
}

// NormalizeWorkID strips an optional "works/" path segment.
func NormalizeWorkID(workID string) string {
	id := strings.TrimSpace(workID)
	id = strings.TrimPrefix(id, "/")
	id = strings.TrimPrefix(id, "works/")
	return strings.Trim(id, "/")
}
