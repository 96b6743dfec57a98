package models

import "sort"

// FileEntry represents a single text file captured during a scan.
// Paths are relative to the source root and slash-separated so that the
// generated installer behaves identically regardless of the platform the
// scan ran on.
type FileEntry struct {
	// Path is the slash-separated path relative to the source root
	Path string
	// Content is the raw file content
	Content string
	// Size is the content length in bytes
	Size int
}

// Structure holds the result of scanning the include paths: every directory
// that was walked and every file that will be embedded in the installer.
// Files keep scan order; directories are deduplicated on insert and sorted
// at render time.
type Structure struct {
	Files []FileEntry

	dirs    []string
	dirSeen map[string]bool
}

// NewStructure creates an empty scan structure.
func NewStructure() *Structure {
	return &Structure{
		Files:   make([]FileEntry, 0),
		dirs:    make([]string, 0),
		dirSeen: make(map[string]bool),
	}
}

// AddDirectory records a directory path, ignoring duplicates.
func (s *Structure) AddDirectory(path string) {
	if path == "" || path == "." {
		return
	}
	if s.dirSeen[path] {
		return
	}
	s.dirSeen[path] = true
	s.dirs = append(s.dirs, path)
}

// AddFile appends a file entry with its size derived from the content.
func (s *Structure) AddFile(path, content string) {
	s.Files = append(s.Files, FileEntry{
		Path:    path,
		Content: content,
		Size:    len(content),
	})
}

// SortedDirectories returns the recorded directories in lexical order.
// Sorting guarantees parents come before children when the installer
// creates them, and makes generation deterministic.
func (s *Structure) SortedDirectories() []string {
	sorted := make([]string, len(s.dirs))
	copy(sorted, s.dirs)
	sort.Strings(sorted)
	return sorted
}

// DirectoryCount returns the number of distinct directories recorded.
func (s *Structure) DirectoryCount() int {
	return len(s.dirs)
}

// FileCount returns the number of files recorded.
func (s *Structure) FileCount() int {
	return len(s.Files)
}

// TotalBytes returns the combined size of all recorded file contents.
func (s *Structure) TotalBytes() int {
	total := 0
	for _, f := range s.Files {
		total += f.Size
	}
	return total
}
