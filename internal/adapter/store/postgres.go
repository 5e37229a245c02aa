package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"

	_ "github.com/lib/pq"
)

// PostgresStore persists commit records in Postgres with pgvector, letting
// the database perform the nearest-neighbor scan. MVCC gives readers a
// consistent snapshot while the indexer writes.
type PostgresStore struct {
	db   *sql.DB
	dims int
}

// NewPostgresStore opens a connection and ensures the schema exists.
func NewPostgresStore(databaseURL string, dimensions int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", port.ErrStoreUnavailable, err)
	}

	s := &PostgresStore{db: db, dims: dimensions}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	schema := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS commits (
			hash      TEXT PRIMARY KEY,
			author    TEXT NOT NULL DEFAULT '',
			message   TEXT NOT NULL,
			diff      TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL,
			embedding vector(%d)
		);
		CREATE INDEX IF NOT EXISTS idx_commits_timestamp ON commits(timestamp);
	`, s.dims)

	_, err := s.db.Exec(schema)
	return err
}

// Upsert inserts or replaces a record by commit hash.
func (s *PostgresStore) Upsert(ctx context.Context, rec *domain.CommitRecord) error {
	query := `INSERT INTO commits (hash, author, message, diff, timestamp, embedding)
	          VALUES ($1, $2, $3, $4, $5, $6::vector)
	          ON CONFLICT (hash) DO UPDATE SET
	              author = EXCLUDED.author,
	              message = EXCLUDED.message,
	              diff = EXCLUDED.diff,
	              timestamp = EXCLUDED.timestamp,
	              embedding = EXCLUDED.embedding`

	_, err := s.db.ExecContext(ctx, query,
		rec.Hash, rec.Author, rec.Message, rec.Diff, rec.Timestamp.UTC(), vectorToString(rec.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert commit %s: %w", rec.Hash, err)
	}
	return nil
}

// UpsertBatch inserts or replaces multiple records in one transaction.
func (s *PostgresStore) UpsertBatch(ctx context.Context, recs []*domain.CommitRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO commits (hash, author, message, diff, timestamp, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6::vector)
		 ON CONFLICT (hash) DO UPDATE SET
		     author = EXCLUDED.author,
		     message = EXCLUDED.message,
		     diff = EXCLUDED.diff,
		     timestamp = EXCLUDED.timestamp,
		     embedding = EXCLUDED.embedding`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.Hash, rec.Author, rec.Message, rec.Diff, rec.Timestamp.UTC(), vectorToString(rec.Embedding),
		); err != nil {
			return fmt.Errorf("upsert commit %s: %w", rec.Hash, err)
		}
	}
	return tx.Commit()
}

// Query performs a cosine similarity search via pgvector. Ties are broken by
// most-recent timestamp, then hash.
func (s *PostgresStore) Query(ctx context.Context, queryVector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 || len(queryVector) == 0 {
		return nil, nil
	}

	query := `SELECT hash, author, message, diff, timestamp,
	                 1 - (embedding <=> $1::vector) AS similarity
	          FROM commits
	          ORDER BY embedding <=> $1::vector, timestamp DESC, hash
	          LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, vectorToString(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("%w: search commits: %v", port.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(
			&r.Commit.Hash, &r.Commit.Author, &r.Commit.Message,
			&r.Commit.Diff, &r.Commit.Timestamp, &r.Score,
		); err != nil {
			return nil, fmt.Errorf("%w: scan commit: %v", port.ErrStoreUnavailable, err)
		}
		r.Rank = len(results) + 1
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate commits: %v", port.ErrStoreUnavailable, err)
	}
	return results, nil
}

// Count returns the number of stored records.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count commits: %v", port.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
