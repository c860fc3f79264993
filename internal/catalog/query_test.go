package catalog

import (
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery_Expression(t *testing.T) {
	tests := []struct {
		name string
		q    SearchQuery
		want string
	}{
		{name: "title only", q: SearchQuery{Title: "dune"}, want: "title:dune"},
		{name: "author only", q: SearchQuery{Author: "tolkien"}, want: "author:tolkien"},
		{name: "year only", q: SearchQuery{Year: "1965"}, want: "first_publish_year:1965"},
		{
			name: "all filters in fixed order",
			q:    SearchQuery{Year: "1965", Language: "eng", Author: "herbert", Title: "dune"},
			want: "title:dune AND author:herbert AND language:eng AND first_publish_year:1965",
		},
		{name: "blank filters skipped", q: SearchQuery{Title: "  ", Author: "le guin"}, want: "author:le guin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Expression())
		})
	}
}

func TestSearchQuery_HasFilters(t *testing.T) {
	assert.False(t, SearchQuery{}.HasFilters())
	assert.False(t, SearchQuery{Title: " ", Author: "\t", Page: 3, Limit: 50}.HasFilters())
	assert.True(t, SearchQuery{Language: "fre"}.HasFilters())
}

func TestParseSearchQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := ParseSearchQuery(url.Values{"title": {" dune "}})
		assert.Equal(t, "dune", q.Title)
		assert.Equal(t, DefaultPage, q.Page)
		assert.Equal(t, DefaultLimit, q.Limit)
	})

	t.Run("explicit paging", func(t *testing.T) {
		q := ParseSearchQuery(url.Values{"title": {"dune"}, "page": {"2"}, "limit": {"10"}})
		assert.Equal(t, 2, q.Page)
		assert.Equal(t, 10, q.Limit)
	})

	t.Run("invalid paging falls back", func(t *testing.T) {
		q := ParseSearchQuery(url.Values{"page": {"abc"}, "limit": {"-4"}})
		assert.Equal(t, DefaultPage, q.Page)
		assert.Equal(t, DefaultLimit, q.Limit)
	})

	t.Run("large limit passes through", func(t *testing.T) {
		q := ParseSearchQuery(url.Values{"limit": {"200"}})
		assert.Equal(t, 200, q.Limit)
	})
}

func TestSearchQuery_Params(t *testing.T) {
	p := SearchQuery{Title: "dune", Year: "1965"}.Params()
	require.NotNil(t, p.Title)
	assert.Equal(t, "dune", *p.Title)
	assert.Nil(t, p.Author)
	assert.Nil(t, p.Language)
	require.NotNil(t, p.Year)
	assert.Equal(t, "1965", *p.Year)
}

func TestSearchQuery_Validate(t *testing.T) {
	for _, q := range []SearchQuery{
		{Title: "dune", Language: "eng", Year: "1965"},
		{Year: "1965-1970"},
		{Year: "19651"},
		{Language: "en-US"},
		{Title: strings.Repeat("a", 201)},
	} {
		assert.NoError(t, q.validate(), q.Expression())
	}

	err := SearchQuery{Title: strings.Repeat("a", 1001), Author: "herbert"}.validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, "title must be at most 1000 characters", verr.Fields[0].Message)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(45, 20))
	assert.Equal(t, 10, TotalPages(95, 10))
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 100))
	assert.Equal(t, 0, TotalPages(10, 0))

	for total := 0; total <= 300; total++ {
		for limit := 1; limit <= 50; limit++ {
			want := int(math.Ceil(float64(total) / float64(limit)))
			if got := TotalPages(total, limit); got != want {
				t.Fatalf("TotalPages(%d, %d) = %d, want %d", total, limit, got, want)
			}
		}
	}
}
