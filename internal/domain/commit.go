package domain

import "time"

// CommitRecord is an indexed git commit together with its cached embedding.
// Records are immutable once stored; reindexing replaces them wholesale.
type CommitRecord struct {
	Hash      string    `json:"hash"      db:"hash"`
	Author    string    `json:"author"    db:"author"`
	Message   string    `json:"message"   db:"message"`
	Diff      string    `json:"-"         db:"diff"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Embedding []float32 `json:"-"         db:"embedding"`
}

// ShortHash returns the abbreviated commit hash used in rendered output.
func (c CommitRecord) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// SearchResult is one ranked commit returned by semantic search.
type SearchResult struct {
	Commit CommitRecord `json:"commit"`
	Score  float64      `json:"score"`
	Rank   int          `json:"rank"`
}

// Query is a transient semantic query over the commit index. ID and
// ConversationID are carried for diagnostics only and never influence
// ranking or filtering.
type Query struct {
	ID             string
	Text           string
	ConversationID string
}
