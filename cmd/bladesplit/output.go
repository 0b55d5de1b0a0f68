package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bladesplit/internal/diff"
	"bladesplit/internal/refactor"
	"bladesplit/internal/section"
)

// Palette
var (
	colorSuccess     = lipgloss.Color("#8BC34A")
	colorDestructive = lipgloss.Color("#e53935")
	colorWarning     = lipgloss.Color("#FFC107")
	colorInfo        = lipgloss.Color("#2196F3")
	colorMuted       = lipgloss.Color("#6b7280")
	colorAdded       = lipgloss.Color("#22c55e")
	colorRemoved     = lipgloss.Color("#ef4444")
)

// console renders runner progress for a terminal. Styles come from a
// renderer bound to the writer, so piped output carries no escape codes.
type console struct {
	w io.Writer

	ok      lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	step    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	hunk    lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
}

func newConsole(w io.Writer) *console {
	r := lipgloss.NewRenderer(w)
	return &console{
		w:       w,
		ok:      r.NewStyle().Foreground(colorSuccess).Bold(true),
		fail:    r.NewStyle().Foreground(colorDestructive).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarning),
		step:    r.NewStyle().Bold(true).Width(11),
		muted:   r.NewStyle().Foreground(colorMuted),
		header:  r.NewStyle().Bold(true),
		hunk:    r.NewStyle().Foreground(colorInfo),
		added:   r.NewStyle().Foreground(colorAdded),
		removed: r.NewStyle().Foreground(colorRemoved),
	}
}

// Outcome implements refactor.Sink.
func (c *console) Outcome(o refactor.Outcome) {
	mark, text := c.ok.Render("✓"), o.Detail
	if !o.OK {
		mark, text = c.fail.Render("✗"), o.Error
	}
	lines := strings.Split(text, "\n")
	fmt.Fprintf(c.w, "%s %s %s\n", mark, c.step.Render(string(o.Step)), lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(c.w, "  %s\n", c.muted.Render(l))
	}
}

// Preview implements refactor.Sink.
func (c *console) Preview(d *diff.FileDiff) {
	if !d.Changed() {
		fmt.Fprintf(c.w, "%s %s\n", c.muted.Render("unchanged"), d.Path)
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(d.Unified(), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			line = c.header.Render(line)
		case strings.HasPrefix(line, "@@"):
			line = c.hunk.Render(line)
		case strings.HasPrefix(line, "+"):
			line = c.added.Render(line)
		case strings.HasPrefix(line, "-"):
			line = c.removed.Render(line)
		}
		fmt.Fprintln(c.w, line)
	}
}

// Summary prints the closing line of a run.
func (c *console) Summary(rep *refactor.Report) {
	ok := len(rep.Outcomes) - rep.Failures()
	line := fmt.Sprintf("%d succeeded, %d failed", ok, rep.Failures())
	if rep.Failures() > 0 {
		line = c.fail.Render(line)
	} else {
		line = c.ok.Render(line)
	}
	suffix := fmt.Sprintf("%d files written", len(rep.Written))
	if rep.DryRun {
		suffix = "dry run, nothing written"
	}
	fmt.Fprintf(c.w, "\n%s %s\n", line, c.muted.Render("("+suffix+", run "+rep.RunID+")"))
}

// Findings prints a lint report.
func (c *console) Findings(path string, rep section.LintReport) {
	for _, f := range rep.Findings {
		sev := c.warn.Render(string(f.Severity))
		if f.Severity == section.SeverityError {
			sev = c.fail.Render(string(f.Severity))
		}
		fmt.Fprintf(c.w, "%s:%d: %s %s %s\n", path, f.Line, sev, c.muted.Render(f.Code), f.Message)
	}
	fmt.Fprintf(c.w, "%d markers, %d sections, %d errors, %d warnings\n",
		len(rep.Tokens), len(rep.Pairs), rep.Errors(), rep.Warnings())
}
