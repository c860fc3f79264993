package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// SearchDoc is a compact way to describe a search.json hit in tests.
type SearchDoc struct {
	Key        string
	Title      string
	Authors    []string
	AuthorKeys []string
	Year       int
	CoverID    int64
}

// SearchJSON renders a search.json body.
func SearchJSON(numFound int, docs ...SearchDoc) string {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		doc := map[string]any{"key": d.Key, "title": d.Title}
		if len(d.Authors) > 0 {
			doc["author_name"] = d.Authors
		}
		if len(d.AuthorKeys) > 0 {
			doc["author_key"] = d.AuthorKeys
		}
		if d.Year > 0 {
			doc["first_publish_year"] = d.Year
		}
		if d.CoverID > 0 {
			doc["cover_i"] = d.CoverID
		}
		out = append(out, doc)
	}
	return mustJSON(map[string]any{"numFound": numFound, "start": 0, "docs": out})
}

// WorkJSON renders a works/{id}.json body referencing the given author keys.
func WorkJSON(id, title, description string, authorKeys ...string) string {
	authors := make([]map[string]any, len(authorKeys))
	for i, k := range authorKeys {
		authors[i] = map[string]any{
			"author": map[string]string{"key": k},
			"type":   map[string]string{"key": "/type/author_role"},
		}
	}
	work := map[string]any{
		"key":     "/works/" + id,
		"title":   title,
		"authors": authors,
		"created": map[string]string{"type": "/type/datetime", "value": "2009-10-15T11:34:21.437031"},
	}
	if description != "" {
		work["description"] = map[string]string{"type": "/type/text", "value": description}
	}
	return mustJSON(work)
}

// AuthorJSON renders an authors/{key}.json body.
func AuthorJSON(key, name string) string {
	return mustJSON(map[string]string{
		"key":           key,
		"name":          name,
		"personal_name": name,
	})
}

// AuthorKeys returns n keys of the form /authors/OL<i>A.
func AuthorKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("/authors/OL%dA", i+1)
	}
	return keys
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
	Raw    string
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
		Raw:    strings.TrimSpace(string(bodyBytes)),
	}
}
