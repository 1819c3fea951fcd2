package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsDuplicateNearIdenticalSentence(t *testing.T) {
	t.Parallel()

	history := NewHistoryFrom(DefaultHistorySize, []string{"the weather is nice today"})
	require.True(t, IsDuplicate("the weather is nice today.", history))
	require.False(t, IsDuplicate("completely different sentence here", history))
}

func TestIsDuplicateIgnoresCase(t *testing.T) {
	t.Parallel()

	history := NewHistoryFrom(DefaultHistorySize, []string{"The Weather Is Nice Today"})
	require.True(t, IsDuplicate("the weather is nice today", history))
}

func TestIsDuplicateEmptyInputs(t *testing.T) {
	t.Parallel()

	require.False(t, IsDuplicate("", NewHistoryFrom(3, []string{""})))
	require.False(t, IsDuplicate("anything", NewHistory(3)))
	require.False(t, IsDuplicate("anything", nil))
}

func TestDeduplicatorThreshold(t *testing.T) {
	t.Parallel()

	history := NewHistoryFrom(DefaultHistorySize, []string{"abcd"})

	// "abcx" vs "abcd" matches 3 of 4 runes: ratio 0.75.
	require.InDelta(t, 0.75, Similarity("abcx", "abcd"), 1e-9)
	require.False(t, Deduplicator{}.IsDuplicate("abcx", history))
	require.True(t, Deduplicator{Threshold: 0.7}.IsDuplicate("abcx", history))

	// Exactly at the threshold is not a duplicate.
	require.False(t, Deduplicator{Threshold: 0.75}.IsDuplicate("abcx", history))

	// Out-of-range thresholds fall back to the default.
	require.False(t, Deduplicator{Threshold: 7}.IsDuplicate("abcx", history))
}

func TestSimilarityRatio(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1.0, Similarity("same", "same"), 1e-9)
	require.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	require.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	require.InDelta(t, 50.0/51.0, Similarity("the weather is nice today", "the weather is nice today."), 1e-9)
	// Runes, not bytes.
	require.InDelta(t, 0.8, Similarity("héllo", "hello"), 1e-9)
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	h := NewHistory(2)
	h.Add("one")
	h.Add("two")
	h.Add("three")
	require.Equal(t, 2, h.Len())
	require.Equal(t, []string{"two", "three"}, h.Entries())

	seeded := NewHistoryFrom(2, []string{"a", "b", "c", "d"})
	require.Equal(t, []string{"c", "d"}, seeded.Entries())
}

func TestNewHistoryDefaultsCapacity(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultHistorySize, NewHistory(0).Cap())
	require.Equal(t, DefaultHistorySize, NewHistory(-3).Cap())
}
