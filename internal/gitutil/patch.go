package gitutil

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// FileChange is one file touched by a patch.
type FileChange struct {
	Name    string
	Added   int
	Deleted int
}

// PatchSummary describes a unified diff.
type PatchSummary struct {
	Files []FileChange
	// Strip is the -p level needed to apply the patch: 1 for a/ b/ prefixed
	// names, 0 otherwise.
	Strip int
}

// Added returns the total number of added lines.
func (s *PatchSummary) Added() int {
	n := 0
	for _, f := range s.Files {
		n += f.Added
	}
	return n
}

// Deleted returns the total number of deleted lines.
func (s *PatchSummary) Deleted() int {
	n := 0
	for _, f := range s.Files {
		n += f.Deleted
	}
	return n
}

// Summarize parses a unified diff with one or more files.
func Summarize(patch []byte) (*PatchSummary, error) {
	fileDiffs, err := godiff.ParseMultiFileDiff(patch)
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	if len(fileDiffs) == 0 {
		return nil, fmt.Errorf("parse patch: no file changes found")
	}

	summary := &PatchSummary{Strip: 1}
	for _, fd := range fileDiffs {
		if !prefixed(fd.OrigName, "a/") || !prefixed(fd.NewName, "b/") {
			summary.Strip = 0
		}

		name := fd.NewName
		if name == "/dev/null" {
			name = fd.OrigName
		}
		change := FileChange{Name: name}
		for _, h := range fd.Hunks {
			stat := h.Stat()
			change.Added += int(stat.Added + stat.Changed)
			change.Deleted += int(stat.Deleted + stat.Changed)
		}
		summary.Files = append(summary.Files, change)
	}

	if summary.Strip == 1 {
		for i := range summary.Files {
			summary.Files[i].Name = strings.TrimPrefix(strings.TrimPrefix(summary.Files[i].Name, "b/"), "a/")
		}
	}
	return summary, nil
}

func prefixed(name, prefix string) bool {
	return name == "/dev/null" || strings.HasPrefix(name, prefix)
}
