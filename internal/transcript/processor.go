package transcript

import "strings"

// Reason explains why a transcript was suppressed.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonEmpty     Reason = "empty"
	ReasonDuplicate Reason = "duplicate"
)

// Outcome records every pipeline stage for one transcript.
type Outcome struct {
	Raw        string
	Cleaned    string
	Grammared  string
	Final      string
	Suppressed bool
	Reason     Reason
}

// Processor runs the normalization pipeline and owns the rolling history.
// Callers serialize access; the snippet table is only read.
type Processor struct {
	dedupe  Deduplicator
	history *History
	table   SnippetTable
}

// Options configures a Processor.
type Options struct {
	HistorySize         int
	SimilarityThreshold float64
	Snippets            SnippetTable
	// Seed pre-populates the history, oldest first.
	Seed []string
}

// NewProcessor constructs a pipeline with a fresh or seeded history.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		dedupe:  Deduplicator{Threshold: opts.SimilarityThreshold},
		history: NewHistoryFrom(opts.HistorySize, opts.Seed),
		table:   opts.Snippets,
	}
}

// History exposes the processor's rolling history.
func (p *Processor) History() *History {
	return p.history
}

// Process returns the normalized text and true, or "" and false when the raw
// transcript is blank or too similar to recent output.
func (p *Processor) Process(raw string) (string, bool) {
	outcome := p.ProcessDetailed(raw)
	if outcome.Suppressed {
		return "", false
	}
	return outcome.Final, true
}

// ProcessDetailed is Process with intermediate stages and the suppression reason.
func (p *Processor) ProcessDetailed(raw string) Outcome {
	outcome := Outcome{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		outcome.Suppressed = true
		outcome.Reason = ReasonEmpty
		return outcome
	}

	if p.dedupe.IsDuplicate(raw, p.history) {
		outcome.Suppressed = true
		outcome.Reason = ReasonDuplicate
		return outcome
	}

	outcome.Cleaned = RemoveRepetitions(raw)
	outcome.Grammared = NormalizeGrammar(outcome.Cleaned)
	outcome.Final = ExpandSnippets(outcome.Grammared, p.table)

	p.history.Add(outcome.Final)
	return outcome
}
