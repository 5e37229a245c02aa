package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"
	"github.com/bigale/gitforai/internal/vector"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists commit records in a single SQLite file. Similarity
// is computed Go-side over the candidate rows; WAL mode keeps readers on a
// consistent snapshot while the indexer writes.
type SQLiteStore struct {
	db   *sql.DB
	path string
	dims int
	mu   sync.RWMutex
}

// NewSQLiteStore opens (or creates) the index file at path.
func NewSQLiteStore(path string, dimensions int) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, dims: dimensions}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commits (
		hash      TEXT PRIMARY KEY,
		author    TEXT NOT NULL DEFAULT '',
		message   TEXT NOT NULL,
		diff      TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL,
		embedding BLOB
	);

	CREATE INDEX IF NOT EXISTS idx_commits_timestamp ON commits(timestamp);

	CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert inserts or replaces a record by commit hash.
func (s *SQLiteStore) Upsert(ctx context.Context, rec *domain.CommitRecord) error {
	if err := s.checkDims(rec.Embedding); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO commits (hash, author, message, diff, timestamp, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Hash, rec.Author, rec.Message, rec.Diff, rec.Timestamp.UTC(), encodeVector(rec.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert commit %s: %w", rec.Hash, err)
	}
	return nil
}

// UpsertBatch inserts or replaces multiple records in one transaction, so
// readers see either none or all of the batch.
func (s *SQLiteStore) UpsertBatch(ctx context.Context, recs []*domain.CommitRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if err := s.checkDims(rec.Embedding); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO commits (hash, author, message, diff, timestamp, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.Hash, rec.Author, rec.Message, rec.Diff, rec.Timestamp.UTC(), encodeVector(rec.Embedding),
		); err != nil {
			return fmt.Errorf("upsert commit %s: %w", rec.Hash, err)
		}
	}
	return tx.Commit()
}

// Query returns the k nearest records by cosine similarity, ties broken by
// most-recent timestamp, then hash, so ordering is deterministic.
func (s *SQLiteStore) Query(ctx context.Context, queryVector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 || len(queryVector) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, author, message, diff, timestamp, embedding FROM commits`)
	if err != nil {
		return nil, fmt.Errorf("%w: query commits: %v", port.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var rec domain.CommitRecord
		var embedding []byte
		if err := rows.Scan(&rec.Hash, &rec.Author, &rec.Message, &rec.Diff, &rec.Timestamp, &embedding); err != nil {
			return nil, fmt.Errorf("%w: scan commit: %v", port.ErrStoreUnavailable, err)
		}
		rec.Embedding = decodeVector(embedding)

		results = append(results, domain.SearchResult{
			Commit: rec,
			Score:  vector.Cosine(queryVector, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate commits: %v", port.ErrStoreUnavailable, err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Commit.Timestamp.Equal(results[j].Commit.Timestamp) {
			return results[i].Commit.Timestamp.After(results[j].Commit.Timestamp)
		}
		return results[i].Commit.Hash < results[j].Commit.Hash
	})

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// checkDims rejects embeddings whose length disagrees with the index. A
// mixed-dimension index would silently score everything 0.
func (s *SQLiteStore) checkDims(embedding []float32) error {
	if s.dims > 0 && len(embedding) != s.dims {
		return fmt.Errorf("%w: got %d, index expects %d", port.ErrDimensionMismatch, len(embedding), s.dims)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count commits: %v", port.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
