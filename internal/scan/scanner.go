package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/NeuralNotwerk/q-framework/internal/models"
)

// Logger receives progress notes during a scan. The scanner only emits
// debug-level notes (skipped paths, recorded entries) and warnings for
// unreadable files.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Options configures a scan of a source tree.
type Options struct {
	// SourceRoot is the directory the include paths are resolved against
	SourceRoot string
	// IncludePaths are files or directories relative to SourceRoot,
	// processed in order
	IncludePaths []string
	// ExcludePatterns remove matching paths (exact or glob, full relative
	// path or basename) from consideration
	ExcludePatterns []string
	// Logger receives progress notes; nil disables them
	Logger Logger
}

// Scanner walks the configured include paths and collects the directory
// and file structure to embed.
type Scanner struct {
	opts Options
}

// NewScanner creates a scanner from the provided options.
func NewScanner(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan resolves each include path and returns the collected structure.
// Missing include paths are skipped with a debug note. Binary and
// unreadable files are skipped. The returned error is reserved for a
// source root that cannot be accessed at all.
func (s *Scanner) Scan() (*models.Structure, error) {
	info, err := os.Stat(s.opts.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", s.opts.SourceRoot)
	}

	structure := models.NewStructure()

	for _, include := range s.opts.IncludePaths {
		fullPath := filepath.Join(s.opts.SourceRoot, include)

		info, err := os.Stat(fullPath)
		if err != nil {
			s.logDebug(fmt.Sprintf("Include path does not exist: %s", include))
			continue
		}

		s.logDebug(fmt.Sprintf("Processing include path: %s", include))

		if info.IsDir() {
			s.scanDirectory(fullPath, structure)
		} else {
			s.scanFile(fullPath, filepath.ToSlash(include), structure)
		}
	}

	return structure, nil
}

// scanFile applies the exclusion and binary checks to a single file and
// records it when both pass.
func (s *Scanner) scanFile(fullPath, relPath string, structure *models.Structure) {
	if Excluded(relPath, s.opts.ExcludePatterns) {
		s.logDebug(fmt.Sprintf("Excluding %s", relPath))
		return
	}

	if IsBinaryFile(fullPath) {
		s.logDebug(fmt.Sprintf("Skipping binary file: %s", relPath))
		return
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.logWarn(fmt.Sprintf("Error reading %s: %v", relPath, err))
		return
	}

	structure.AddFile(relPath, string(content))
	s.logDebug(fmt.Sprintf("Added file: %s (%d bytes)", relPath, len(content)))
}

// scanDirectory walks a directory recursively, pruning excluded subtrees
// and recording each visited directory and each surviving file.
func (s *Scanner) scanDirectory(dir string, structure *models.Structure) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logWarn(fmt.Sprintf("Error accessing %s: %v", p, err))
			return nil
		}

		rel, err := filepath.Rel(s.opts.SourceRoot, p)
		if err != nil {
			return nil
		}
		relPath := filepath.ToSlash(rel)

		if d.IsDir() {
			if Excluded(relPath, s.opts.ExcludePatterns) {
				s.logDebug(fmt.Sprintf("Excluding %s", relPath))
				return filepath.SkipDir
			}
			structure.AddDirectory(relPath)
			s.logDebug(fmt.Sprintf("Found directory: %s", relPath))
			return nil
		}

		s.scanFile(p, relPath, structure)
		return nil
	})
}

func (s *Scanner) logDebug(message string) {
	if s.opts.Logger != nil {
		s.opts.Logger.LogDebug(message)
	}
}

func (s *Scanner) logWarn(message string) {
	if s.opts.Logger != nil {
		s.opts.Logger.LogWarn(message)
	}
}
