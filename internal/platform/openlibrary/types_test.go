package openlibrary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantSet bool
	}{
		{name: "plain string", input: `"Long text..."`, want: "Long text...", wantSet: true},
		{name: "typed object", input: `{"type":"/type/text","value":"Long text..."}`, want: "Long text...", wantSet: true},
		{name: "null", input: `null`},
		{name: "object without value", input: `{"type":"/type/text"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.wantSet, got.Set)
		})
	}
}

func TestText_AbsentField(t *testing.T) {
	var w Work
	require.NoError(t, json.Unmarshal([]byte(`{"title":"No description"}`), &w))
	assert.Nil(t, w.Description.Ptr())
}

func TestText_RejectsNumbers(t *testing.T) {
	var got Text
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestCoverURL(t *testing.T) {
	assert.Nil(t, CoverURL(0, CoverLarge))
	assert.Nil(t, CoverURL(-1, CoverLarge))

	u := CoverURL(8231856, CoverMedium)
	require.NotNil(t, u)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/8231856-M.jpg", *u)
}

func TestWork_AuthorKeysSkipsBlanks(t *testing.T) {
	var w Work
	require.NoError(t, json.Unmarshal([]byte(`{"authors":[{"author":{"key":"/authors/OL1A"}},{"type":{"key":"/type/author_role"}},{"author":{"key":"/authors/OL2A"}}]}`), &w))
	assert.Equal(t, []string{"/authors/OL1A", "/authors/OL2A"}, w.AuthorKeys())
}
