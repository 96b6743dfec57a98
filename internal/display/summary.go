package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/NeuralNotwerk/q-framework/internal/models"
)

// ScanSummary prints the one-line result of a scan:
// "Found N directories and M files (X bytes)"
func ScanSummary(out io.Writer, structure *models.Structure) {
	fmt.Fprintf(out, "Found %d directories and %d files (%d bytes)\n",
		structure.DirectoryCount(), structure.FileCount(), structure.TotalBytes())
}

// ScanTable prints the full directory and file listing produced by a scan,
// used by the inspect command. Titles maps file paths to a short
// description shown next to the entry (markdown document titles).
func ScanTable(out io.Writer, structure *models.Structure, titles map[string]string) {
	useColor := colorEnabled(out)
	header := func(s string) string {
		if useColor {
			return color.New(color.Bold).Sprint(s)
		}
		return s
	}

	fmt.Fprintln(out, header("Directories:"))
	dirs := structure.SortedDirectories()
	if len(dirs) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, dir := range dirs {
		fmt.Fprintf(out, "  %s/\n", dir)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, header("Files:"))
	if len(structure.Files) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, f := range structure.Files {
		if title := titles[f.Path]; title != "" {
			fmt.Fprintf(out, "  %s (%d bytes) - %s\n", f.Path, f.Size, title)
		} else {
			fmt.Fprintf(out, "  %s (%d bytes)\n", f.Path, f.Size)
		}
	}
}

// Success prints a green checkmarked status line.
func Success(out io.Writer, format string, args ...interface{}) {
	line := fmt.Sprintf("✓ "+format+"\n", args...)
	if colorEnabled(out) {
		color.New(color.FgGreen).Fprint(out, line)
		return
	}
	fmt.Fprint(out, line)
}
