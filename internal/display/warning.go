package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Related paths or patterns (optional)
	Suggestion string   // Action to take (optional)
}

// colorEnabled reports whether colored output should be used for a writer.
// Only os.Stdout and os.Stderr can be TTYs; anything else (test buffers,
// pipes) gets plain text.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	return isatty.IsTerminal(f.Fd()) && !color.NoColor
}

// Display shows a formatted warning, in yellow when the writer is a TTY
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, item := range w.Items {
		b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, item))
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if colorEnabled(out) {
		color.New(color.FgYellow).Fprint(out, b.String())
		return
	}
	fmt.Fprint(out, b.String())
}
