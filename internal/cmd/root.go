package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for qfi
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qfi",
		Short: "Generate self-contained framework installer scripts",
		Long: `qfi scans a curated set of files and directories (the .amazonq folder
and AmazonQ.md by default) and generates a single executable shell script
that recreates the same structure anywhere by decoding embedded content.

The generated installer supports dry-run previews, verbose output, and
timestamped backups of any files it would overwrite.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewBuildCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
