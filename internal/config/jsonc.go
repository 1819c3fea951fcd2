package config

import "errors"

var errUnterminatedBlockComment = errors.New("unterminated block comment in JSONC")

type jsoncState int

const (
	jsoncCode jsoncState = iota
	jsoncString
	jsoncStringEscape
	jsoncLineComment
	jsoncBlockComment
)

// normalizeJSONC turns JSONC into plain JSON. Comments become spaces and
// trailing commas are dropped, so byte offsets and line numbers still match
// the source for decode errors.
func normalizeJSONC(content string) (string, error) {
	out := []byte(content)
	state := jsoncCode
	pendingComma := -1

	for i := 0; i < len(out); i++ {
		ch := out[i]
		switch state {
		case jsoncString:
			switch ch {
			case '\\':
				state = jsoncStringEscape
			case '"':
				state = jsoncCode
			}
			continue
		case jsoncStringEscape:
			state = jsoncString
			continue
		case jsoncLineComment:
			if ch == '\n' || ch == '\r' {
				state = jsoncCode
				continue
			}
			out[i] = ' '
			continue
		case jsoncBlockComment:
			if ch == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				state = jsoncCode
				continue
			}
			if ch != '\n' && ch != '\r' && ch != '\t' {
				out[i] = ' '
			}
			continue
		}

		switch {
		case ch == '/' && i+1 < len(out) && out[i+1] == '/':
			out[i], out[i+1] = ' ', ' '
			i++
			state = jsoncLineComment
		case ch == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i++
			state = jsoncBlockComment
		case isJSONWhitespace(ch):
		case ch == ',':
			pendingComma = i
		case ch == '}' || ch == ']':
			if pendingComma >= 0 {
				out[pendingComma] = ' '
			}
			pendingComma = -1
		default:
			if ch == '"' {
				state = jsoncString
			}
			pendingComma = -1
		}
	}

	if state == jsoncBlockComment {
		return "", errUnterminatedBlockComment
	}
	return string(out), nil
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}
