package domain

// PatternObservation labels a recurring structural signature shared by two
// or more commits in a candidate set. Observations are derived per query
// batch and not persisted.
type PatternObservation struct {
	Label   string   `json:"label"`
	Commits []string `json:"commits"`
	Support int      `json:"support"`
}
