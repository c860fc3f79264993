package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookfinder/internal/testutil"
)

type stubRepo struct {
	NoopRepo
	entries   []Entry
	err       error
	lastLimit int
}

func (s *stubRepo) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.lastLimit = limit
	return s.entries, s.err
}

func serveRecent(repo Repository, path string) testutil.RecordResponse {
	mux := http.NewServeMux()
	NewHTTPHandler(repo, nil).RegisterRoutes(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.NewRequest(http.MethodGet, path))
	return testutil.RecordHTTPResponse(w)
}

func TestRecentHandler(t *testing.T) {
	repo := &stubRepo{entries: []Entry{
		{ID: 2, Query: "author:tolkien", Author: "tolkien", Page: 1, Limit: 20, Total: 300, CreatedAt: time.Now()},
	}}

	resp := serveRecent(repo, "/api/searches/recent?limit=5")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 5, repo.lastLimit)

	searches := resp.Body["searches"].([]any)
	require.Len(t, searches, 1)
	assert.Equal(t, "author:tolkien", searches[0].(map[string]any)["query"])
}

func TestRecentHandler_LimitBounds(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", DefaultRecentLimit},
		{"?limit=abc", DefaultRecentLimit},
		{"?limit=0", DefaultRecentLimit},
		{"?limit=-4", DefaultRecentLimit},
		{"?limit=50", 50},
		{"?limit=500", MaxRecentLimit},
	}
	for _, tt := range tests {
		repo := &stubRepo{}
		resp := serveRecent(repo, "/api/searches/recent"+tt.query)
		require.Equal(t, http.StatusOK, resp.Code, tt.query)
		assert.Equal(t, tt.want, repo.lastLimit, tt.query)
		assert.Equal(t, []any{}, resp.Body["searches"], tt.query)
	}
}

func TestRecentHandler_RepositoryError(t *testing.T) {
	resp := serveRecent(&stubRepo{err: errors.New("connection refused")}, "/api/searches/recent")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "INTERNAL_ERROR", resp.Body["code"])
}

func TestRecentHandler_NoopRepo(t *testing.T) {
	resp := serveRecent(nil, "/api/searches/recent")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []any{}, resp.Body["searches"])
}
