package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookfinder/internal/history"
	"bookfinder/internal/metrics"
	"bookfinder/internal/platform/openlibrary"
)

// ErrMissingWorkID is returned when a detail request carries no identifier.
var ErrMissingWorkID = errors.New("work ID is required")

type Service struct {
	upstream Upstream
	history  HistoryRecorder
	logger   *zap.Logger
	metrics  *metrics.Metrics

	pending sync.WaitGroup
}

func NewService(upstream Upstream, recorder HistoryRecorder, logger *zap.Logger, m *metrics.Metrics) *Service {
	if recorder == nil {
		recorder = history.NoopRepo{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		upstream: upstream,
		history:  recorder,
		logger:   logger,
		metrics:  m,
	}
}

// Search forwards the AND-joined filters to the catalog in a single call and
// normalizes the hits.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if !q.HasFilters() {
		return nil, ErrNoFilters
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	q = q.withPaging()
	expr := q.Expression()

	res, err := s.upstream.Search(ctx, openlibrary.SearchRequest{
		Query: expr,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search catalog for %q: %w", expr, err)
	}

	books := make([]BookSummary, 0, len(res.Docs))
	for _, doc := range res.Docs {
		books = append(books, summaryFromDoc(doc))
	}

	s.recordSearch(ctx, q, expr, res.NumFound)

	return &SearchResult{
		Books:        books,
		Total:        res.NumFound,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   TotalPages(res.NumFound, q.Limit),
		SearchParams: q.Params(),
	}, nil
}

// recordSearch writes the history entry in the background so a slow store
// never delays the response. The write outlives the request context.
func (s *Service) recordSearch(ctx context.Context, q SearchQuery, expr string, total int) {
	entry := history.Entry{
		Query:    expr,
		Title:    q.Title,
		Author:   q.Author,
		Language: q.Language,
		Year:     q.Year,
		Page:     q.Page,
		Limit:    q.Limit,
		Total:    total,
	}
	ctx = context.WithoutCancel(ctx)
	s.pending.Go(func() {
		if err := s.history.Record(ctx, entry); err != nil {
			s.metrics.IncHistoryWriteFailure()
			s.logger.Warn("record search history", zap.String("query", expr), zap.Error(err))
		}
	})
}

// Wait blocks until background history writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Details fetches a work, falling back to a title search on the identifier,
// and enriches it with up to MaxAuthorDetails author records.
func (s *Service) Details(ctx context.Context, workID string) (*BookDetail, error) {
	id := NormalizeWorkID(workID)
	if id == "" {
		return nil, ErrMissingWorkID
	}

	var detail *BookDetail
	work, err := s.upstream.GetWork(ctx, id)
	if err == nil {
		detail = detailFromWork(work)
	} else {
		s.logger.Info("work lookup failed, falling back to title search",
			zap.String("work_id", id),
			zap.String("error_type", openlibrary.ErrorType(err)),
			zap.Error(err),
		)
		res, searchErr := s.upstream.Search(ctx, openlibrary.SearchRequest{Title: id, Limit: 1})
		if searchErr != nil {
			return nil, fmt.Errorf("fetch work %s: %w", id, errors.Join(err, searchErr))
		}
		if len(res.Docs) == 0 {
			return nil, fmt.Errorf("work %s: %w", id, ErrNotFound)
		}
		detail = detailFromDoc(res.Docs[0])
	}

	detail.AuthorDetails = s.fetchAuthors(ctx, detail.Authors)
	return detail, nil
}

// fetchAuthors resolves the first MaxAuthorDetails keys concurrently. Results
// keep key order. Any single failure cancels the rest and the whole batch
// degrades to an empty list.
func (s *Service) fetchAuthors(ctx context.Context, keys []string) []AuthorSummary {
	if len(keys) == 0 {
		return []AuthorSummary{}
	}
	if len(keys) > MaxAuthorDetails {
		keys = keys[:MaxAuthorDetails]
	}

	out := make([]AuthorSummary, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			a, err := s.upstream.GetAuthor(gctx, key)
			if err != nil {
				return fmt.Errorf("author %s: %w", key, err)
			}
			resolvedKey := a.Key
			if resolvedKey == "" {
				resolvedKey = key
			}
			out[i] = AuthorSummary{
				Key:          resolvedKey,
				Name:         a.Name,
				PersonalName: a.PersonalName,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.IncAuthorFanoutDegraded()
		s.logger.Warn("author details unavailable",
			zap.Int("requested", len(keys)),
			zap.Error(err),
		)
		return []AuthorSummary{}
	}
	return out
}
