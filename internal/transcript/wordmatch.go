package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWordRune mirrors a Unicode \w: letters, digits, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// replaceWholeWords replaces matches of pattern that are not glued to a word
// rune on either side. Go's \b only knows ASCII word characters, so the
// boundary is checked here instead.
func replaceWholeWords(text string, pattern *regexp.Regexp, replace func(match string) string) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos <= len(text) {
		loc := pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			break
		}
		if !wordBoundaryBefore(text, start) || !wordBoundaryAfter(text, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(replace(text[start:end]))
		last, pos = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func wordBoundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	first, _ := utf8.DecodeRuneInString(text[i:])
	return !(isWordRune(prev) && isWordRune(first))
}

func wordBoundaryAfter(text string, i int) bool {
	if i == len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[i:])
	lastRune, _ := utf8.DecodeLastRuneInString(text[:i])
	return !(isWordRune(lastRune) && isWordRune(next))
}
