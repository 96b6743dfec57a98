package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NeuralNotwerk/q-framework/internal/config"
	"github.com/NeuralNotwerk/q-framework/internal/display"
	"github.com/NeuralNotwerk/q-framework/internal/filelock"
	"github.com/NeuralNotwerk/q-framework/internal/generator"
	"github.com/NeuralNotwerk/q-framework/internal/history"
	"github.com/NeuralNotwerk/q-framework/internal/logger"
	"github.com/NeuralNotwerk/q-framework/internal/models"
	"github.com/NeuralNotwerk/q-framework/internal/scan"
)

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Scan a source tree and generate the installer script",
		Long: `Scan the included files and directories under the source path (default:
current directory) and generate a complete installer script that recreates
the structure with all content.

Configuration is loaded from .qfi/config.yaml in the source directory if
present. CLI flags override configuration file settings.

Examples:
  qfi build                                # Default: include .amazonq/ and AmazonQ.md
  qfi build ~/projects/app                 # Scan another source directory
  qfi build --include config.yaml          # Add config.yaml to the defaults
  qfi build --exclude ".amazonq/temp"      # Exclude a folder
  qfi build --exclude "*.log" -v           # Exclude logs with verbose output
  qfi build --clear-defaults --include .amazonq  # Only .amazonq, no AmazonQ.md
  qfi build -o setup.sh --force            # Custom output, overwrite silently`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}

	// Add flags
	cmd.Flags().StringP("output", "o", "", "Output filename (default: install_q_framework.sh)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing script without confirmation")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output during generation")
	cmd.Flags().Bool("no-exec", false, "Don't make the generated script executable")
	cmd.Flags().StringArray("include", nil, "Files/directories to include (can be used multiple times)")
	cmd.Flags().StringArray("exclude", nil, "Files/directories to exclude (can be used multiple times)")
	cmd.Flags().Bool("clear-defaults", false, "Clear default includes, only use explicitly specified --include")
	cmd.Flags().String("config", "", "Path to config file (default: <source>/.qfi/config.yaml)")

	return cmd
}

// buildParams holds the fully merged inputs of one build invocation.
type buildParams struct {
	sourcePath string
	outputPath string
	includes   []string
	excludes   []string
	force      bool
	verbose    bool
	cfg        *config.Config
}

// runBuild implements the build command logic
func runBuild(cmd *cobra.Command, args []string) error {
	params, err := resolveBuildParams(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// One reader for the whole invocation so the first prompt does not
	// buffer input meant for a later one
	stdin := bufio.NewReader(cmd.InOrStdin())

	// Check if output file exists before doing any work
	if _, err := os.Stat(params.outputPath); err == nil && !params.force {
		prompt := fmt.Sprintf("File %s already exists. Overwrite? (y/N): ", params.outputPath)
		if !confirm(stdin, out, prompt) {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	// Set up logging: console plus a per-run file under <source>/.qfi/logs
	logLevel := params.cfg.LogLevel
	if params.verbose {
		logLevel = "debug"
	}
	consoleLog := logger.NewConsoleLogger(out, logLevel)

	var log logger.Logger = consoleLog
	fileLog, err := logger.NewFileLogger(filepath.Join(params.sourcePath, ".qfi", "logs"), logLevel)
	if err != nil {
		consoleLog.LogWarn(fmt.Sprintf("file logging disabled: %v", err))
	} else {
		defer fileLog.Close()
		log = logger.NewMultiLogger(consoleLog, fileLog)
	}

	log.LogDebug(fmt.Sprintf("Source directory: %s", params.sourcePath))
	log.LogDebug(fmt.Sprintf("Include paths: %s", strings.Join(params.includes, ", ")))
	log.LogDebug(fmt.Sprintf("Exclude patterns: %s", strings.Join(params.excludes, ", ")))
	log.LogDebug(fmt.Sprintf("Output file: %s", params.outputPath))

	// Scan the included paths
	fmt.Fprintln(out, "Scanning included paths...")
	start := time.Now()

	scanner := scan.NewScanner(scan.Options{
		SourceRoot:      params.sourcePath,
		IncludePaths:    params.includes,
		ExcludePatterns: params.excludes,
		Logger:          log,
	})
	structure, err := scanner.Scan()
	if err != nil {
		return err
	}

	display.ScanSummary(out, structure)

	if structure.FileCount() == 0 {
		items := make([]string, 0, len(params.includes)+len(params.excludes))
		for _, p := range params.includes {
			items = append(items, "include: "+p)
		}
		for _, p := range params.excludes {
			items = append(items, "exclude: "+p)
		}
		display.Warning{
			Title:      "No files found to include",
			Message:    "Check your include/exclude patterns.",
			Items:      items,
			Suggestion: "Use --include to add paths or --exclude to relax patterns.",
		}.Display(out)

		if !confirm(stdin, out, "Continue anyway? (y/N): ") {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	// Generate the complete installer script
	fmt.Fprintln(out, "Generating framework setup script...")
	script := generator.Generate(structure, generator.Options{
		ScriptName: filepath.Base(params.outputPath),
	})

	mode := os.FileMode(0755)
	if params.cfg.NoExec {
		mode = 0644
	}

	log.LogDebug("Writing shell script content")
	if err := filelock.LockAndWrite(params.outputPath, []byte(script), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", params.outputPath, err)
	}

	recordRun(log, params, structure, len(script), time.Since(start))

	display.Success(out, "Generated: %s", params.outputPath)
	if !params.cfg.NoExec {
		display.Success(out, "Script is executable")
	}
	display.Success(out, "Script size: %d bytes", len(script))
	display.Success(out, "Included %d path(s): %s", len(params.includes), strings.Join(params.includes, ", "))
	if len(params.excludes) > 0 {
		display.Success(out, "Excluded %d pattern(s): %s", len(params.excludes), strings.Join(params.excludes, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "1. Copy the script to the target location")
	fmt.Fprintf(out, "2. Run: ./%s\n", filepath.Base(params.outputPath))
	fmt.Fprintf(out, "3. Or with options: ./%s --help\n", filepath.Base(params.outputPath))

	return nil
}

// resolveBuildParams loads configuration, merges CLI flags over it, and
// validates the source directory.
func resolveBuildParams(cmd *cobra.Command, args []string) (*buildParams, error) {
	sourceArg := "."
	if len(args) == 1 {
		sourceArg = args[0]
	}
	sourcePath, err := filepath.Abs(sourceArg)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("source directory %s does not exist", sourcePath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", sourcePath)
	}

	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only values the user changed)
	var outputPtr *string
	if cmd.Flags().Changed("output") {
		output, _ := cmd.Flags().GetString("output")
		outputPtr = &output
	}

	var noExecPtr *bool
	if cmd.Flags().Changed("no-exec") {
		noExec, _ := cmd.Flags().GetBool("no-exec")
		noExecPtr = &noExec
	}

	cfg.MergeWithFlags(outputPtr, noExecPtr, nil)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	verbose, _ := cmd.Flags().GetBool("verbose")

	includes, excludes := resolveScanRules(cmd, cfg)

	outputPath := cfg.Output
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(sourcePath, outputPath)
	}

	return &buildParams{
		sourcePath: sourcePath,
		outputPath: outputPath,
		includes:   includes,
		excludes:   excludes,
		force:      force,
		verbose:    verbose,
		cfg:        cfg,
	}, nil
}

// resolveScanRules combines configured and flag-provided include/exclude
// rules. --clear-defaults drops the configured includes; duplicates are
// removed preserving first occurrence.
func resolveScanRules(cmd *cobra.Command, cfg *config.Config) (includes, excludes []string) {
	clearDefaults, _ := cmd.Flags().GetBool("clear-defaults")
	flagIncludes, _ := cmd.Flags().GetStringArray("include")
	flagExcludes, _ := cmd.Flags().GetStringArray("exclude")

	if !clearDefaults {
		includes = append(includes, cfg.Includes...)
	}
	includes = append(includes, flagIncludes...)
	includes = dedupe(includes)

	excludes = append(excludes, cfg.Excludes...)
	excludes = append(excludes, flagExcludes...)
	excludes = dedupe(excludes)

	return includes, excludes
}

// dedupe removes duplicate entries while preserving order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

// confirm prints the prompt and reads a single line answer. Only "y" and
// "yes" (case-insensitive) count as confirmation. Callers share one reader
// across prompts so buffered input is not lost between them.
func confirm(reader *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// recordRun stores the completed build in the history database. Failures
// are logged and otherwise ignored.
func recordRun(log logger.Logger, params *buildParams, structure *models.Structure, scriptBytes int, duration time.Duration) {
	if !params.cfg.History.Enabled {
		return
	}

	dbPath := params.cfg.History.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(params.sourcePath, dbPath)
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled: %v", err))
		return
	}
	defer store.Close()

	_, err = store.RecordRun(history.Run{
		SourcePath:     params.sourcePath,
		OutputPath:     params.outputPath,
		DirectoryCount: structure.DirectoryCount(),
		FileCount:      structure.FileCount(),
		TotalBytes:     structure.TotalBytes(),
		ScriptBytes:    scriptBytes,
		Duration:       duration,
	})
	if err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run: %v", err))
		return
	}

	if _, err := store.Prune(params.cfg.History.KeepRuns); err != nil {
		log.LogWarn(fmt.Sprintf("failed to prune history: %v", err))
	}
}
