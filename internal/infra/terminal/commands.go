package terminal

import (
	"strings"
)

// Command is a keyboard command typed by the reader.
type Command int

const (
	CommandNone Command = iota
	CommandToggle
	CommandSlower
	CommandFaster
	CommandQuit
)

// ParseCommand maps an input line to a command. An empty line toggles
// playback, so pressing Enter works like the space bar.
func ParseCommand(line string) Command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "space", "p":
		return CommandToggle
	case "z":
		return CommandSlower
	case "x":
		return CommandFaster
	case "q", "quit":
		return CommandQuit
	default:
		return CommandNone
	}
}
