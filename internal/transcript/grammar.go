package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type grammarRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	whitespaceRunPattern     = regexp.MustCompile(`[\s\p{Z}]+`)
	spaceBeforePunctPattern  = regexp.MustCompile(`[\s\p{Z}]+([,.!?;:])`)
	missingSpaceAfterPattern = regexp.MustCompile(`([,.!?;:])(\p{L})`)

	// contractionRules run in order after spacing fixes. Matching is whole-word
	// and case-insensitive; the replacement is inserted verbatim.
	contractionRules = []grammarRule{
		wordRule("i", "I"),
		wordRule("im", "I'm"),
		wordRule("ive", "I've"),
		wordRule("ill", "I'll"),
		wordRule("wont", "won't"),
		wordRule("cant", "can't"),
		wordRule("dont", "don't"),
		wordRule("isnt", "isn't"),
		wordRule("arent", "aren't"),
		wordRule("wasnt", "wasn't"),
		wordRule("werent", "weren't"),
		wordRule("hasnt", "hasn't"),
		wordRule("havent", "haven't"),
		wordRule("hadnt", "hadn't"),
		wordRule("wouldnt", "wouldn't"),
		wordRule("couldnt", "couldn't"),
		wordRule("shouldnt", "shouldn't"),
	}
)

func wordRule(word string, replacement string) grammarRule {
	return grammarRule{
		pattern:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word)),
		replacement: replacement,
	}
}

// NormalizeGrammar applies mechanical cleanup: sentence-start capital,
// whitespace and punctuation spacing, then the contraction table.
func NormalizeGrammar(text string) string {
	if text == "" {
		return text
	}

	text = capitalizeFirst(strings.TrimSpace(text))
	text = whitespaceRunPattern.ReplaceAllString(text, " ")
	text = spaceBeforePunctPattern.ReplaceAllString(text, "$1")
	text = missingSpaceAfterPattern.ReplaceAllString(text, "$1 $2")

	for _, rule := range contractionRules {
		text = replaceWholeWords(text, rule.pattern, func(string) string { return rule.replacement })
	}
	return text
}

// capitalizeFirst upper-cases only the first rune and leaves the rest untouched.
func capitalizeFirst(text string) string {
	if text == "" {
		return text
	}
	first, size := utf8.DecodeRuneInString(text)
	upper := unicode.ToUpper(first)
	if upper == first {
		return text
	}
	return string(upper) + text[size:]
}
