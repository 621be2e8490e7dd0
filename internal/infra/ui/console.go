// Where: cli/internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize prefixes, indentation, and colour across commands.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool
	ColorEnabled bool
}

// New creates a new Console writing to the provided writer.
func New(out io.Writer) *Console {
	return &Console{Out: out, EmojiEnabled: true}
}

// NewWithOptions creates a new Console with explicit emoji and colour settings.
func NewWithOptions(out io.Writer, emoji, colour bool) *Console {
	return &Console{Out: out, EmojiEnabled: emoji, ColorEnabled: colour}
}

// Header prints a section header with an emoji.
// Example: 📦 Zip deploy.
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), c.paint(title, color.Bold))
}

// BlockStart starts a block with a blank line and a header.
func (c *Console) BlockStart(emoji, title string) {
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
}

// BlockEnd ends a logical block.
func (c *Console) BlockEnd() {
	fmt.Fprintln(c.Out)
}

// Item prints a key-value item with indentation.
// Example:    Key: Value.
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-20s %v\n", key+":", value)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	prefix := c.emojiPrefix("✅")
	if prefix == "" {
		prefix = "[ok] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.paint(prefix, color.FgGreen), msg)
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	fmt.Fprintf(c.Out, "%s\n", msg)
}

// Warn prints a warning message with an emoji.
func (c *Console) Warn(msg string) {
	prefix := c.emojiPrefix("⚠️")
	if prefix == "" {
		prefix = "[warn] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.paint(prefix, color.FgYellow), msg)
}

// Error prints an error message with an emoji.
func (c *Console) Error(msg string) {
	prefix := c.emojiPrefix("❌")
	if prefix == "" {
		prefix = "[error] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.paint(prefix, color.FgRed, color.Bold), msg)
}

func (c *Console) paint(s string, attrs ...color.Attribute) string {
	if !c.ColorEnabled {
		return s
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(s)
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
