package transcript

import (
	"regexp"
	"sort"
	"strings"
)

// SnippetTable maps lower-cased trigger words to their expansion text.
type SnippetTable map[string]string

// Triggers returns the table keys in sorted order.
func (t SnippetTable) Triggers() []string {
	triggers := make([]string, 0, len(t))
	for trigger := range t {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	return triggers
}

// ExpandSnippets replaces whole-word trigger occurrences with their expansions.
//
// Only triggers that appear as a whitespace-delimited word in the text are
// considered. All replacements are computed against the input in one pass, so
// expansion text is never itself expanded.
func ExpandSnippets(text string, table SnippetTable) string {
	if len(table) == 0 || text == "" {
		return text
	}

	present := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		present[word] = struct{}{}
	}

	active := make([]string, 0, len(table))
	for _, trigger := range table.Triggers() {
		if trigger == "" {
			continue
		}
		if _, ok := present[trigger]; ok {
			active = append(active, trigger)
		}
	}
	if len(active) == 0 {
		return text
	}

	// Longer triggers first so alternation never prefers a shorter prefix.
	sort.SliceStable(active, func(i, j int) bool {
		return len(active[i]) > len(active[j])
	})

	quoted := make([]string, 0, len(active))
	for _, trigger := range active {
		quoted = append(quoted, regexp.QuoteMeta(trigger))
	}
	pattern := regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)

	return replaceWholeWords(text, pattern, func(match string) string {
		if expansion, ok := table[strings.ToLower(match)]; ok {
			return expansion
		}
		return match
	})
}
