package history

import (
	"context"
	"time"
)

// Entry is one recorded catalog search.
type Entry struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Language  string    `json:"language,omitempty"`
	Year      string    `json:"year,omitempty"`
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the contract for search history storage.
type Repository interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Ping(ctx context.Context) error
}

// NoopRepo is used when no database is configured.
type NoopRepo struct{}

func (NoopRepo) Record(context.Context, Entry) error { return nil }

func (NoopRepo) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (NoopRepo) Ping(context.Context) error { return nil }
