package transcript

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultHistorySize is the number of accepted outputs kept for duplicate checks.
	DefaultHistorySize = 5
	// DefaultSimilarityThreshold is the ratio a candidate must exceed to be suppressed.
	DefaultSimilarityThreshold = 0.8
)

// History is a fixed-capacity FIFO of recently accepted outputs.
// It has no internal locking; one owner mutates it at a time.
type History struct {
	capacity int
	entries  []string
}

// NewHistory creates an empty history. Non-positive capacity uses DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity, entries: make([]string, 0, capacity)}
}

// NewHistoryFrom seeds a history with entries ordered oldest first, keeping
// only the newest capacity entries.
func NewHistoryFrom(capacity int, entries []string) *History {
	h := NewHistory(capacity)
	for _, entry := range entries {
		h.Add(entry)
	}
	return h
}

// Add appends an accepted output and evicts the oldest entries beyond capacity.
func (h *History) Add(entry string) {
	h.entries = append(h.entries, entry)
	if overflow := len(h.entries) - h.capacity; overflow > 0 {
		h.entries = append(h.entries[:0], h.entries[overflow:]...)
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Cap returns the configured capacity.
func (h *History) Cap() int {
	if h == nil {
		return 0
	}
	return h.capacity
}

// Entries returns a copy of the stored entries, oldest first.
func (h *History) Entries() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of two strings compared
// rune by rune, where M is the matched rune count and T the combined length.
func Similarity(a string, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// Deduplicator flags candidates that are too similar to recent history.
type Deduplicator struct {
	Threshold float64
}

// threshold returns the configured ratio, or the default when out of (0, 1].
func (d Deduplicator) threshold() float64 {
	if d.Threshold <= 0 || d.Threshold > 1 {
		return DefaultSimilarityThreshold
	}
	return d.Threshold
}

// IsDuplicate reports whether candidate's case-insensitive similarity to any
// history entry exceeds the threshold.
func (d Deduplicator) IsDuplicate(candidate string, history *History) bool {
	if candidate == "" || history.Len() == 0 {
		return false
	}

	limit := d.threshold()
	lowered := strings.ToLower(candidate)
	for _, entry := range history.entries {
		if Similarity(lowered, strings.ToLower(entry)) > limit {
			return true
		}
	}
	return false
}

// IsDuplicate checks candidate against history using DefaultSimilarityThreshold.
func IsDuplicate(candidate string, history *History) bool {
	return Deduplicator{}.IsDuplicate(candidate, history)
}
