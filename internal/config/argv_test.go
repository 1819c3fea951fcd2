package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "   ", want: nil},
		{name: "comment", in: "# disabled", want: nil},
		{name: "plain words", in: "wtype -", want: []string{"wtype", "-"}},
		{name: "double quotes", in: `whisper-cli --model "base en" -f`, want: []string{"whisper-cli", "--model", "base en", "-f"}},
		{name: "single quotes keep backslash", in: `printf '%s\n'`, want: []string{"printf", `%s\n`}},
		{name: "escaped space", in: `cat my\ file`, want: []string{"cat", "my file"}},
		{name: "empty quoted argument kept", in: `cmd "" end`, want: []string{"cmd", "", "end"}},
		{name: "adjacent quoted segments join", in: `a"b c"d`, want: []string{"ab cd"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseArgv(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgvRejectsUnterminatedInput(t *testing.T) {
	t.Parallel()

	_, err := parseArgv(`say "hello`)
	require.ErrorContains(t, err, "unterminated quote")

	_, err = parseArgv(`say hello\`)
	require.ErrorContains(t, err, "unterminated escape")
}

func TestMustParseArgvPanicsOnInvalidInput(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { mustParseArgv(`"open`) })
}

func TestParseCommandWrapsKey(t *testing.T) {
	t.Parallel()

	_, err := parseCommand("output.type_cmd", `wtype "`)
	require.ErrorContains(t, err, "invalid output.type_cmd")

	cmd, err := parseCommand("output.type_cmd", "xdotool type --file -")
	require.NoError(t, err)
	require.Equal(t, "xdotool type --file -", cmd.Raw)
	require.Equal(t, []string{"xdotool", "type", "--file", "-"}, cmd.Argv)
}
