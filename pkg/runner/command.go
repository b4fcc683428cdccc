package runner

import (
	"strconv"
	"strings"
)

// CommandKind enumerates what a line of player input asks for.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdVial
	CmdCancel
	CmdAddVial
	CmdUndo
	CmdHelp
	CmdQuit
	CmdXyzzy
	CmdUnknown
)

// Command is one parsed line of player input.
type Command struct {
	Kind CommandKind
	// Vial is the 0-based vial index for CmdVial. It may be out of range;
	// the runner checks it against the current puzzle.
	Vial int
}

// ParseCommand interprets a sanitized input line.
// Vial numbers are 1-based on screen and converted to 0-based indices.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CmdNone}
	}

	if n, err := strconv.Atoi(line); err == nil {
		return Command{Kind: CmdVial, Vial: n - 1}
	}

	switch strings.ToLower(line) {
	case "c", "cancel":
		return Command{Kind: CmdCancel}
	case "v", "vial":
		return Command{Kind: CmdAddVial}
	case "u", "undo":
		return Command{Kind: CmdUndo}
	case "help", "h", "?":
		return Command{Kind: CmdHelp}
	case "exit", "quit", "q":
		return Command{Kind: CmdQuit}
	case "xyzzy":
		return Command{Kind: CmdXyzzy}
	default:
		return Command{Kind: CmdUnknown}
	}
}

// HelpText lists the commands understood by the runner.
const HelpText = `help: Show this message
<number>: Select a vial, then a destination to pour into
c: Cancel the current selection
u: Undo last action
v: Add an empty vial
quit: Leave the game`
