package catalog

import (
	"context"

	"bookfinder/internal/history"
	"bookfinder/internal/platform/openlibrary"
)

// Upstream is the slice of the catalog API client the service depends on.
type Upstream interface {
	Search(ctx context.Context, req openlibrary.SearchRequest) (*openlibrary.SearchResponse, error)
	GetWork(ctx context.Context, workID string) (*openlibrary.Work, error)
	GetAuthor(ctx context.Context, authorKey string) (*openlibrary.Author, error)
}

// HistoryRecorder stores successful searches. Failures never reach the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) error
}
