package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/NeuralNotwerk/q-framework/internal/config"
	"github.com/NeuralNotwerk/q-framework/internal/history"
)

// NewHistoryCommand creates the 'qfi history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Show past generation runs",
		Long: `Display the generation runs recorded for a source directory, newest
first. History is stored in .qfi/history.db under the source directory
(configurable via .qfi/config.yaml).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")

	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// newHistoryClearCommand creates the 'qfi history clear' command
func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [source]",
		Short: "Delete all recorded generation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistoryClear,
	}
}

// openHistoryStore resolves the history database path for a source
// directory and opens the store.
func openHistoryStore(args []string) (*history.Store, error) {
	sourceArg := "."
	if len(args) == 1 {
		sourceArg = args[0]
	}
	sourcePath, err := filepath.Abs(sourceArg)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}

	if info, err := os.Stat(sourcePath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source directory %s does not exist", sourcePath)
	}

	cfg, err := config.LoadConfigFromDir(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := cfg.History.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(sourcePath, dbPath)
	}

	return history.NewStore(dbPath)
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(args)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No generation runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s\n", run.CreatedAt.Format(time.DateTime), run.RunID)
		fmt.Fprintf(out, "  output: %s\n", run.OutputPath)
		fmt.Fprintf(out, "  %d dir(s), %d file(s), %d bytes in, %d bytes out, took %s\n",
			run.DirectoryCount, run.FileCount, run.TotalBytes, run.ScriptBytes,
			run.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(out, "\n%d run(s)\n", len(runs))

	return nil
}

// runHistoryClear executes the history clear command
func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(args)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Clear()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d recorded run(s).\n", removed)
	return nil
}
