package domain

// FileDelta describes the changes one commit made to a single file.
type FileDelta struct {
	Path    string   `json:"path"`
	Added   int      `json:"added"`
	Removed int      `json:"removed"`
	Binary  bool     `json:"binary"`
	Symbols []string `json:"symbols,omitempty"`
}

// DeltaSummary is a compact structural summary of one commit's diff.
// It is derived from the stored diff text and cacheable because commit
// records never change.
type DeltaSummary struct {
	Files     []FileDelta `json:"files"`
	Added     int         `json:"added"`
	Removed   int         `json:"removed"`
	Truncated bool        `json:"truncated"`
}

// Empty reports whether the summary carries no file changes, which is the
// normal shape for merge commits.
func (d DeltaSummary) Empty() bool {
	return len(d.Files) == 0
}
