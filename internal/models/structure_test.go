package models

import (
	"testing"
)

func TestStructureAddDirectory(t *testing.T) {
	tests := []struct {
		name      string
		add       []string
		wantCount int
		wantOrder []string
	}{
		{
			name:      "deduplicates repeated paths",
			add:       []string{".amazonq", ".amazonq/rules", ".amazonq", ".amazonq/rules"},
			wantCount: 2,
			wantOrder: []string{".amazonq", ".amazonq/rules"},
		},
		{
			name:      "ignores empty and dot",
			add:       []string{"", ".", ".amazonq"},
			wantCount: 1,
			wantOrder: []string{".amazonq"},
		},
		{
			name:      "sorts at read time not insert time",
			add:       []string{".amazonq/scripts", ".amazonq", ".amazonq/rules"},
			wantCount: 3,
			wantOrder: []string{".amazonq", ".amazonq/rules", ".amazonq/scripts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStructure()
			for _, d := range tt.add {
				s.AddDirectory(d)
			}

			if s.DirectoryCount() != tt.wantCount {
				t.Errorf("DirectoryCount() = %d, want %d", s.DirectoryCount(), tt.wantCount)
			}

			sorted := s.SortedDirectories()
			if len(sorted) != len(tt.wantOrder) {
				t.Fatalf("SortedDirectories() len = %d, want %d", len(sorted), len(tt.wantOrder))
			}
			for i, want := range tt.wantOrder {
				if sorted[i] != want {
					t.Errorf("SortedDirectories()[%d] = %q, want %q", i, sorted[i], want)
				}
			}
		})
	}
}

func TestStructureAddFile(t *testing.T) {
	s := NewStructure()
	s.AddFile("AmazonQ.md", "root")
	s.AddFile(".amazonq/rules/a.md", "hello")

	if s.FileCount() != 2 {
		t.Fatalf("FileCount() = %d, want 2", s.FileCount())
	}

	if s.Files[0].Size != 4 {
		t.Errorf("Files[0].Size = %d, want 4", s.Files[0].Size)
	}
	if s.Files[1].Size != 5 {
		t.Errorf("Files[1].Size = %d, want 5", s.Files[1].Size)
	}

	// Scan order is preserved
	if s.Files[0].Path != "AmazonQ.md" || s.Files[1].Path != ".amazonq/rules/a.md" {
		t.Errorf("file order not preserved: %q, %q", s.Files[0].Path, s.Files[1].Path)
	}
}

func TestStructureTotalBytes(t *testing.T) {
	s := NewStructure()
	if s.TotalBytes() != 0 {
		t.Errorf("TotalBytes() on empty structure = %d, want 0", s.TotalBytes())
	}

	s.AddFile("a.md", "hello")
	s.AddFile("b.md", "world!")

	if s.TotalBytes() != 11 {
		t.Errorf("TotalBytes() = %d, want 11", s.TotalBytes())
	}
}
