// Package generator renders the self-contained installer script from a
// scanned structure. The output embeds every file as base64 so content
// survives shell quoting, and is fully deterministic: generating twice
// from the same structure yields byte-identical scripts.
package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/NeuralNotwerk/q-framework/internal/markdown"
	"github.com/NeuralNotwerk/q-framework/internal/models"
)

// DefaultScriptName is the output filename used when none is configured.
const DefaultScriptName = "install_q_framework.sh"

// Options configures script generation.
type Options struct {
	// ScriptName is the output filename embedded in the script header
	ScriptName string
}

// Generate renders the complete installer script for the scanned structure.
func Generate(structure *models.Structure, opts Options) string {
	name := opts.ScriptName
	if name == "" {
		name = DefaultScriptName
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(scriptHeader, name))
	sb.WriteString(manifestSection(structure))
	sb.WriteString(directoriesSection(structure))
	sb.WriteString(filesSection(structure))
	sb.WriteString(scriptFooter)
	return sb.String()
}

// EncodeContent encodes file content for safe embedding in the script.
func EncodeContent(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

// manifestSection renders a comment block listing the embedded markdown
// documents with their titles, so the script is self-describing without
// running it.
func manifestSection(structure *models.Structure) string {
	var entries []string
	for _, f := range structure.Files {
		if !markdown.IsMarkdownPath(f.Path) {
			continue
		}
		if title := markdown.DocumentTitle(f.Content); title != "" {
			entries = append(entries, fmt.Sprintf("#   %s - %s", f.Path, title))
		} else {
			entries = append(entries, fmt.Sprintf("#   %s", f.Path))
		}
	}

	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n# Embedded documents:\n")
	for _, e := range entries {
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	return sb.String()
}

// directoriesSection renders create_directories() with one call per
// directory, sorted so parents precede children.
func directoriesSection(structure *models.Structure) string {
	var sb strings.Builder
	sb.WriteString("\n# Create all directories\ncreate_directories() {\n")
	sb.WriteString("    print_status $BLUE \"Creating directory structure...\"\n")
	for _, dir := range structure.SortedDirectories() {
		sb.WriteString(fmt.Sprintf("    create_directory %q\n", dir))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// filesSection renders create_files() with one create_file_from_base64
// call per file, in scan order.
func filesSection(structure *models.Structure) string {
	var sb strings.Builder
	sb.WriteString("\n# Create all files\ncreate_files() {\n")
	sb.WriteString("    print_status $BLUE \"Creating files...\"\n")
	for _, f := range structure.Files {
		sb.WriteString(fmt.Sprintf("\n    # Creating %s (%d bytes)\n", f.Path, f.Size))
		sb.WriteString(fmt.Sprintf("    create_file_from_base64 %q %q\n", f.Path, EncodeContent(f.Content)))
	}
	sb.WriteString("}\n")
	return sb.String()
}
