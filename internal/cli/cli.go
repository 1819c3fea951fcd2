// Package cli parses the voicetray command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandType     Command = "type"
	CommandSave     Command = "save"
	CommandStop     Command = "stop"
	CommandCancel   Command = "cancel"
	CommandStatus   Command = "status"
	CommandProcess  Command = "process"
	CommandSnippets Command = "snippets"
	CommandDevices  Command = "devices"
	CommandDoctor   Command = "doctor"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandType:     {},
	CommandSave:     {},
	CommandStop:     {},
	CommandCancel:   {},
	CommandStatus:   {},
	CommandProcess:  {},
	CommandSnippets: {},
	CommandDevices:  {},
	CommandDoctor:   {},
	CommandVersion:  {},
	CommandHelp:     {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool
}

// Parse reads `[--config PATH] <command>`; flags must precede the command.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case arg == "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case arg == "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			if parsed.ConfigPath == "" {
				return Parsed{}, errors.New("--config requires a path")
			}
		case strings.HasPrefix(arg, "-"):
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		default:
			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  type      Record, clean up, and type the transcript (press again to stop early)
  save      Record, clean up, and append the transcript to the saved-texts file
  stop      Stop the active recording early and commit its transcript
  cancel    Cancel the active recording and discard it
  status    Print the active session state
  process   Clean transcripts read line by line from stdin
  snippets  List loaded snippets and the snippets file path
  devices   List available input devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/voicetray/config.jsonc)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
