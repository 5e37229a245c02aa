package service

import (
	"fmt"
	"strings"

	"github.com/bigale/gitforai/internal/domain"
)

const (
	contextHeader  = "## Relevant commit history\n\n"
	patternsHeader = "### Recurring change patterns\n\n"
	maxMessageLen  = 100
	maxEntryFiles  = 6
	maxEntrySyms   = 5
)

// Assembler renders ranked results, delta summaries, and pattern
// observations into one bounded text block. A formatted entry is an
// all-or-nothing unit: entries that would overflow the budget are dropped,
// never split. Identical input always renders identical output.
type Assembler struct {
	budget int
}

// NewAssembler creates an assembler with a character budget.
func NewAssembler(budget int) *Assembler {
	return &Assembler{budget: budget}
}

// Assemble renders the context block. It returns the empty string when
// there is nothing to report or nothing fits the budget.
func (a *Assembler) Assemble(results []domain.SearchResult, enr *domain.Enrichment) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	if len(contextHeader) > a.budget {
		return ""
	}
	b.WriteString(contextHeader)

	wrote := 0
	for _, res := range results {
		entry := a.renderEntry(res, enr)
		if b.Len()+len(entry) > a.budget {
			break
		}
		b.WriteString(entry)
		wrote++
	}
	if wrote == 0 {
		return ""
	}

	if enr != nil && len(enr.Patterns) > 0 {
		a.appendPatterns(&b, enr.Patterns)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// renderEntry formats one ranked commit with its optional delta summary.
func (a *Assembler) renderEntry(res domain.SearchResult, enr *domain.Enrichment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s %s — %s (relevance %.2f)\n",
		res.Commit.ShortHash(),
		res.Commit.Timestamp.Format("2006-01-02"),
		truncate(res.Commit.Message, maxMessageLen),
		res.Score,
	)

	if delta, ok := enr.DeltaFor(res.Commit.Hash); ok && !delta.Empty() {
		b.WriteString("files: ")
		for i, f := range delta.Files {
			if i == maxEntryFiles {
				fmt.Fprintf(&b, "… %d more", len(delta.Files)-maxEntryFiles)
				break
			}
			if i > 0 {
				b.WriteString(", ")
			}
			if f.Binary {
				fmt.Fprintf(&b, "%s (binary)", f.Path)
			} else {
				fmt.Fprintf(&b, "%s (+%d/-%d)", f.Path, f.Added, f.Removed)
			}
		}
		b.WriteString("\n")

		if syms := collectSymbols(delta, maxEntrySyms); len(syms) > 0 {
			fmt.Fprintf(&b, "symbols: %s\n", strings.Join(syms, ", "))
		}
		if delta.Truncated {
			b.WriteString("(diff analysis truncated)\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

// appendPatterns adds the observations block, each observation all-or-nothing
// against the remaining budget.
func (a *Assembler) appendPatterns(b *strings.Builder, patterns []domain.PatternObservation) {
	if b.Len()+len(patternsHeader) > a.budget {
		return
	}

	var block strings.Builder
	block.WriteString(patternsHeader)
	wrote := 0
	for _, p := range patterns {
		line := fmt.Sprintf("- %s (%d commits: %s)\n", p.Label, p.Support, strings.Join(shortHashes(p.Commits), ", "))
		if b.Len()+block.Len()+len(line) > a.budget {
			break
		}
		block.WriteString(line)
		wrote++
	}
	if wrote > 0 {
		b.WriteString(block.String())
	}
}

func collectSymbols(delta domain.DeltaSummary, max int) []string {
	var syms []string
	for _, f := range delta.Files {
		for _, s := range f.Symbols {
			if len(syms) == max {
				return syms
			}
			if !contains(syms, s) {
				syms = append(syms, s)
			}
		}
	}
	return syms
}

func shortHashes(hashes []string) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		if len(h) > 8 {
			h = h[:8]
		}
		out[i] = h
	}
	return out
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
