package transcript

import "strings"

// phraseLengths are checked longest first so a looped 3-word phrase is not
// split into partial 2-word matches.
var phraseLengths = []int{3, 2}

// maxPhraseLen bounds the settle loop so long transcripts stay linear.
const maxPhraseLen = 32

// RemoveRepetitions collapses stutters ("go go to") and adjacent duplicated
// phrases produced by recognizer loops.
//
// After the 3-word and 2-word passes, longer and newly exposed repeats are
// collapsed longest first until nothing changes, so the result is stable
// under a second call.
func RemoveRepetitions(text string) string {
	words := strings.Fields(text)
	if len(words) <= 1 {
		return text
	}

	words = collapseStutters(words)
	for _, phraseLen := range phraseLengths {
		words = collapsePhraseRepeats(words, phraseLen)
	}
	words = settlePhraseRepeats(words)

	return strings.Join(words, " ")
}

// settlePhraseRepeats sweeps phrase lengths from the longest possible down to 2
// and repeats the sweep while any collapse happened.
func settlePhraseRepeats(words []string) []string {
	for changed := true; changed; {
		changed = false
		longest := min(len(words)/2, maxPhraseLen)
		for phraseLen := longest; phraseLen >= 2; phraseLen-- {
			next := collapsePhraseRepeats(words, phraseLen)
			if len(next) != len(words) {
				changed = true
			}
			words = next
		}
	}
	return words
}

// collapseStutters drops a token when it case-insensitively equals its predecessor.
func collapseStutters(words []string) []string {
	out := make([]string, 0, len(words))
	out = append(out, words[0])
	for i := 1; i < len(words); i++ {
		if strings.EqualFold(words[i], words[i-1]) {
			continue
		}
		out = append(out, words[i])
	}
	return out
}

// collapsePhraseRepeats keeps the first of two adjacent identical phrases of phraseLen tokens.
func collapsePhraseRepeats(words []string, phraseLen int) []string {
	if len(words) < phraseLen*2 {
		return words
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+phraseLen*2 <= len(words) && phrasesEqual(words[i:i+phraseLen], words[i+phraseLen:i+phraseLen*2]) {
			out = append(out, words[i:i+phraseLen]...)
			i += phraseLen * 2
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func phrasesEqual(left []string, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !strings.EqualFold(left[i], right[i]) {
			return false
		}
	}
	return true
}
