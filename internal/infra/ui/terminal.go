// Where: cli/internal/infra/ui/terminal.go
// What: Terminal detection helpers.
// Why: Build hosts read plain diagnostics; decoration is reserved for interactive terminals.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether the writer is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorAllowed reports whether colour output is allowed for the writer.
// NO_COLOR disables colour regardless of the terminal.
func ColorAllowed(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}
