// Package diff renders line diffs of generated files for --dry-run,
// using the sergi/go-diff engine with a line-level reduction.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line represents a single line in the diff
type Line struct {
	OldNum  int // 0 when the line does not exist on the old side
	NewNum  int // 0 when the line does not exist on the new side
	Content string
	Type    LineType
}

// Hunk represents a group of changes
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the preview of one output file.
type FileDiff struct {
	Path  string
	IsNew bool
	Hunks []Hunk
}

// Changed reports whether the file would change at all.
func (f *FileDiff) Changed() bool { return len(f.Hunks) > 0 }

// DefaultContext is the number of unchanged lines kept around a change.
const DefaultContext = 3

// Compute diffs the current content of path (empty when the file does
// not exist yet) against the content a step would write.
func Compute(path, oldContent, newContent string, exists bool) *FileDiff {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	return &FileDiff{
		Path:  path,
		IsNew: !exists,
		Hunks: group(toLines(diffs), DefaultContext),
	}
}

// toLines flattens line-level diffs into numbered lines.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	oldNum, newNum := 0, 0
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" && d.Text == "" {
			continue
		}
		for _, content := range strings.Split(text, "\n") {
			l := Line{Content: content}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				l.Type, l.OldNum, l.NewNum = LineContext, oldNum, newNum
			case diffmatchpatch.DiffDelete:
				oldNum++
				l.Type, l.OldNum = LineRemoved, oldNum
			case diffmatchpatch.DiffInsert:
				newNum++
				l.Type, l.NewNum = LineAdded, newNum
			}
			out = append(out, l)
		}
	}
	return out
}

// group cuts lines into hunks, keeping ctx context lines around changes
// and merging changes whose context would touch.
func group(lines []Line, ctx int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(lines) {
		if lines[i].Type == LineContext {
			i++
			continue
		}
		start := i - ctx
		if start < 0 {
			start = 0
		}
		end := i
		for j := i; j < len(lines); j++ {
			if lines[j].Type != LineContext {
				end = j
				continue
			}
			if j-end > 2*ctx {
				break
			}
		}
		stop := end + ctx + 1
		if stop > len(lines) {
			stop = len(lines)
		}
		hunks = append(hunks, newHunk(lines[start:stop]))
		i = stop
	}
	return hunks
}

func newHunk(lines []Line) Hunk {
	h := Hunk{Lines: append([]Line(nil), lines...)}
	for _, l := range lines {
		if l.Type != LineAdded {
			h.OldCount++
			if h.OldStart == 0 {
				h.OldStart = l.OldNum
			}
		}
		if l.Type != LineRemoved {
			h.NewCount++
			if h.NewStart == 0 {
				h.NewStart = l.NewNum
			}
		}
	}
	return h
}

// Unified renders the diff in unified format.
func (f *FileDiff) Unified() string {
	var sb strings.Builder
	oldName := "a/" + f.Path
	if f.IsNew {
		oldName = "/dev/null"
	}
	fmt.Fprintf(&sb, "--- %s\n+++ b/%s\n", oldName, f.Path)
	for _, h := range f.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				sb.WriteString("+")
			case LineRemoved:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(l.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
