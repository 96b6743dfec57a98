package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NeuralNotwerk/q-framework/internal/config"
	"github.com/NeuralNotwerk/q-framework/internal/display"
	"github.com/NeuralNotwerk/q-framework/internal/logger"
	"github.com/NeuralNotwerk/q-framework/internal/markdown"
	"github.com/NeuralNotwerk/q-framework/internal/scan"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Show what a build would embed without generating anything",
		Long: `Run the scan phase only and print the directories and files that would
be embedded in the installer script, including markdown document titles.

Accepts the same include/exclude flags as build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output during scanning")
	cmd.Flags().StringArray("include", nil, "Files/directories to include (can be used multiple times)")
	cmd.Flags().StringArray("exclude", nil, "Files/directories to exclude (can be used multiple times)")
	cmd.Flags().Bool("clear-defaults", false, "Clear default includes, only use explicitly specified --include")
	cmd.Flags().String("config", "", "Path to config file (default: <source>/.qfi/config.yaml)")

	return cmd
}

// runInspect implements the inspect command logic
func runInspect(cmd *cobra.Command, args []string) error {
	sourceArg := "."
	if len(args) == 1 {
		sourceArg = args[0]
	}
	sourcePath, err := filepath.Abs(sourceArg)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("source directory %s does not exist", sourcePath)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", sourcePath)
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(sourcePath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()

	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(out, logLevel)

	includes, excludes := resolveScanRules(cmd, cfg)

	scanner := scan.NewScanner(scan.Options{
		SourceRoot:      sourcePath,
		IncludePaths:    includes,
		ExcludePatterns: excludes,
		Logger:          log,
	})
	structure, err := scanner.Scan()
	if err != nil {
		return err
	}

	titles := make(map[string]string)
	for _, f := range structure.Files {
		if markdown.IsMarkdownPath(f.Path) {
			if title := markdown.DocumentTitle(f.Content); title != "" {
				titles[f.Path] = title
			}
		}
	}

	display.ScanTable(out, structure, titles)
	fmt.Fprintln(out)
	display.ScanSummary(out, structure)

	return nil
}
