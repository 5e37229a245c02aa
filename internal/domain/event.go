package domain

// PromptEvent is the UserPromptSubmit payload delivered by the host.
// Host-defined extra fields are ignored for forward compatibility.
type PromptEvent struct {
	UserPrompt string       `json:"userPrompt"`
	Context    EventContext `json:"context"`
}

// EventContext carries host metadata about the prompt being submitted.
type EventContext struct {
	Cwd            string `json:"cwd"`
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// InjectionResult is returned to the host. An absent AdditionalSystemPrompt
// means "nothing to inject" and serializes to an empty object.
type InjectionResult struct {
	AdditionalSystemPrompt string `json:"additionalSystemPrompt,omitempty"`
}

// Empty reports whether the result injects nothing.
func (r InjectionResult) Empty() bool {
	return r.AdditionalSystemPrompt == ""
}

// Enrichment accumulates the optional annotations produced by enrichment
// stages for one query batch. A nil map or slice means the stage did not run.
type Enrichment struct {
	Deltas   map[string]DeltaSummary
	Patterns []PatternObservation
}

// DeltaFor returns the delta summary for a commit hash, if one was computed.
func (e *Enrichment) DeltaFor(hash string) (DeltaSummary, bool) {
	if e == nil || e.Deltas == nil {
		return DeltaSummary{}, false
	}
	d, ok := e.Deltas[hash]
	return d, ok
}
