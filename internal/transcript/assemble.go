// Package transcript cleans raw recognizer output before it is typed or saved.
//
// Every stage is a total function over strings with no I/O: repetition
// removal, grammar normalization, snippet expansion, and duplicate
// suppression against a rolling history of accepted outputs.
package transcript

import "strings"

// Assemble joins recognizer segments into one whitespace-normalized transcript.
func Assemble(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(strings.Fields(strings.Join(segments, " ")), " ")
}
