package mcscriptc

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// formatError colorizes an error message for terminal output, the same
// convention the teacher's own CLI uses: NO_COLOR disables color
// unconditionally, MCSCRIPT_FORCE_COLOR enables it even when stderr isn't
// a terminal (set by a parent process that already knows the terminal
// supports it).
func formatError(msg string) string {
	if os.Getenv("NO_COLOR") != "" || (os.Getenv("MCSCRIPT_FORCE_COLOR") == "" && !term.IsTerminal(int(os.Stderr.Fd()))) {
		return "error: " + msg
	}

	const (
		red   = "\033[31m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	result := red + bold + "error" + reset + ": "

	mainLine := msg
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		mainLine = msg[:idx]
	}

	if idx := strings.Index(mainLine, ": "); idx > 0 {
		prefix := mainLine[:idx]
		if strings.Contains(prefix, ":") && !strings.Contains(prefix, " ") {
			result += bold + prefix + reset + ": " + mainLine[idx+2:]
			return result
		}
	}
	result += mainLine
	return result
}
