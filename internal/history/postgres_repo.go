package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

// Open creates a pool and verifies it with a bounded ping.
func Open(ctx context.Context, dsn string, pingTimeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Record(ctx context.Context, e Entry) error {
	const sql = `
		INSERT INTO search_history (query, title, author, language, year, page, page_limit, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(ctx, sql, e.Query, e.Title, e.Author, e.Language, e.Year, e.Page, e.Limit, e.Total); err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const sql = `
		SELECT id, query, title, author, language, year, page, page_limit, total, created_at
		FROM search_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query search history: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Query, &e.Title, &e.Author, &e.Language, &e.Year,
			&e.Page, &e.Limit, &e.Total, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// RedactDSN hides credentials in a postgres URL before it is logged.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

// Close releases the underlying pool.
func (r *PostgresRepo) Close() {
	r.db.Close()
}
