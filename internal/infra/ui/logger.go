// Where: cli/internal/infra/ui/logger.go
// What: Console implementation of the diagnostic logger port.
// Why: Errors go to stderr and everything else to stdout so build hosts can classify them.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

// ConsoleLogger writes one diagnostic per line. Messages are written verbatim
// unless decoration is enabled, which adds a coloured severity prefix.
type ConsoleLogger struct {
	Out      io.Writer
	Err      io.Writer
	Decorate bool
	Verbose  bool
}

var _ ports.Logger = (*ConsoleLogger)(nil)

// NewConsoleLogger returns a logger whose prefixes are coloured only when err is a terminal.
func NewConsoleLogger(out, err io.Writer, noColor, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		Out:      out,
		Err:      err,
		Decorate: !noColor && ColorAllowed(err),
		Verbose:  verbose,
	}
}

func (l *ConsoleLogger) Info(msg string) {
	fmt.Fprintln(l.out(), msg)
}

func (l *ConsoleLogger) Warn(msg string) {
	fmt.Fprintln(l.out(), l.prefix("warning", color.FgYellow)+msg)
}

func (l *ConsoleLogger) Error(msg string) {
	fmt.Fprintln(l.err(), l.prefix("error", color.FgRed)+msg)
}

// WarnDetail writes the error chain of a warning; only shown when verbose.
func (l *ConsoleLogger) WarnDetail(err error) {
	if err == nil || !l.Verbose {
		return
	}
	fmt.Fprintln(l.out(), indent(err.Error()))
}

// ErrorDetail writes the error chain of a failure.
func (l *ConsoleLogger) ErrorDetail(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(l.err(), indent(err.Error()))
}

func (l *ConsoleLogger) prefix(label string, attr color.Attribute) string {
	if !l.Decorate {
		return ""
	}
	p := color.New(attr, color.Bold)
	p.EnableColor()
	return p.Sprint(label+":") + " "
}

func (l *ConsoleLogger) out() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l *ConsoleLogger) err() io.Writer {
	if l.Err == nil {
		return os.Stderr
	}
	return l.Err
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "   " + line
	}
	return strings.Join(lines, "\n")
}
