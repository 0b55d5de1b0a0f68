// Package refactor runs the menu refactor plan: split the source
// template into partials and a wrapper, recover straggler sections and
// loose gaps, then compose the final template from the wrapper.
//
// Failures are local. A section that cannot be extracted is recorded and
// the run moves on; only a missing source template ends a run early.
package refactor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"bladesplit/internal/compose"
	"bladesplit/internal/config"
	"bladesplit/internal/diff"
	"bladesplit/internal/fileops"
	"bladesplit/internal/logging"
	"bladesplit/internal/section"
)

// Sink receives progress as it happens. The CLI prints it.
type Sink interface {
	Outcome(Outcome)
	Preview(*diff.FileDiff)
}

type nopSink struct{}

func (nopSink) Outcome(Outcome)        {}
func (nopSink) Preview(*diff.FileDiff) {}

// Runner executes plan steps against one workspace.
type Runner struct {
	cfg    *config.Config
	dryRun bool
	sink   Sink
	now    func() time.Time

	report *Report
	// pending holds dry-run outputs so later steps see what earlier
	// steps would have written.
	pending map[string]string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDryRun previews writes as diffs instead of performing them.
func WithDryRun(dry bool) Option { return func(r *Runner) { r.dryRun = dry } }

// WithSink routes progress to s.
func WithSink(s Sink) Option { return func(r *Runner) { r.sink = s } }

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// New creates a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		sink:    nopSink{},
		now:     time.Now,
		pending: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.report = newReport(r.dryRun, r.now())
	return r
}

// Report returns the report accumulated so far.
func (r *Runner) Report() *Report { return r.report }

// Run executes steps in order (all steps when none are given). A step
// failure is recorded and the next step still runs; a missing source for
// extract aborts. The returned error is only for aborts.
func (r *Runner) Run(ctx context.Context, steps ...Step) (*Report, error) {
	if len(steps) == 0 {
		steps = AllSteps
	}
	log := logging.Get(logging.CategoryRun).With("run_id", r.report.RunID)
	log.Info("starting run: steps=%v dry_run=%v", steps, r.dryRun)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return r.report, fmt.Errorf("run interrupted before %s: %w", step, err)
		}
		var err error
		switch step {
		case StepExtract:
			err = r.Extract(ctx)
			if errors.Is(err, fileops.ErrMissingInput) {
				return r.report, err
			}
		case StepStragglers:
			err = r.Stragglers(ctx)
		case StepGaps:
			err = r.Gaps(ctx)
		case StepCompose:
			err = r.Compose(ctx, nil)
		default:
			err = fmt.Errorf("unknown step %q", step)
		}
		if err != nil {
			log.Warn("step %s finished with errors: %v", step, err)
		}
	}

	log.Info("run finished: %d outcomes, %d failures", len(r.report.Outcomes), r.report.Failures())
	return r.report, nil
}

// Extract splits the source into one partial per strict section and the wrapper.
func (r *Runner) Extract(ctx context.Context) error {
	src := r.cfg.Path(r.cfg.Source)
	doc, err := r.read(src)
	if err != nil {
		r.fail(StepExtract, "", src, err)
		return err
	}

	res := section.ExtractAll(doc, r.cfg.Markers)
	for _, s := range res.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := section.PartialName(s.Name, r.cfg.Extension)
		path := r.cfg.PartialPath(name)
		if err := r.write(path, s.Body); err != nil {
			r.fail(StepExtract, s.Name, path, err)
			continue
		}
		r.ok(StepExtract, s.Name, path, fmt.Sprintf("extracted '%s' to %s", s.Name, name))
	}
	for _, name := range res.Unmatched {
		r.fail(StepExtract, name, "", &section.MarkerError{Missing: []section.Marker{{Kind: section.MarkerEnd, Name: name}}})
	}

	wrapper := r.cfg.Path(r.cfg.Wrapper)
	if err := r.write(wrapper, res.Wrapper); err != nil {
		r.fail(StepExtract, "wrapper", wrapper, err)
		return err
	}
	r.ok(StepExtract, "wrapper", wrapper, fmt.Sprintf("extracted %d sections and the wrapper", len(res.Sections)))
	return nil
}

// Stragglers recovers every configured straggler section.
func (r *Runner) Stragglers(ctx context.Context) error {
	var errs []error
	for _, s := range r.cfg.Stragglers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.ExtractSection(s.Partial, s.Names...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExtractSection writes the first section matching any of names to the
// partial. Names are tried in order.
func (r *Runner) ExtractSection(partial string, names ...string) error {
	src := r.cfg.Path(r.cfg.Source)
	path := r.cfg.PartialPath(partial)
	doc, err := r.read(src)
	if err != nil {
		r.fail(StepStragglers, partial, path, err)
		return err
	}

	s, used, err := section.Chain(doc, section.ByNames(names...)...)
	if err != nil {
		r.fail(StepStragglers, partial, path, err)
		return fmt.Errorf("extract %s: %w", partial, err)
	}
	if err := r.write(path, s.Body); err != nil {
		r.fail(StepStragglers, partial, path, err)
		return err
	}
	r.ok(StepStragglers, partial, path, fmt.Sprintf("extracted '%s' to %s", used.Name, path))
	return nil
}

// Gaps recovers every configured gap.
func (r *Runner) Gaps(ctx context.Context) error {
	var errs []error
	for _, g := range r.cfg.Gaps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.ExtractBetween(g); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExtractBetween writes the content between End g.After and Start
// g.Before to the gap's partial. Nothing is written on failure.
func (r *Runner) ExtractBetween(g config.Gap) error {
	path := r.cfg.PartialPath(g.Partial)
	doc, used, err := r.readFirst(r.cfg.BetweenCandidates()...)
	if err != nil {
		r.fail(StepGaps, g.Partial, path, err)
		return err
	}

	gap, err := section.ExtractBetween(doc, g.After, g.Before)
	if err != nil {
		r.fail(StepGaps, g.Partial, path, err)
		return fmt.Errorf("extract %s: %w", g.Partial, err)
	}
	if err := r.write(path, gap.Body); err != nil {
		r.fail(StepGaps, g.Partial, path, err)
		return err
	}
	r.ok(StepGaps, g.Partial, path, fmt.Sprintf("recovered content between 'End %s' and 'Start %s' from %s:\n%s",
		g.After, g.Before, used, Preview(gap.Body, 500)))
	return nil
}

// Compose splices includes for order (the configured order when nil)
// into the wrapper and writes the final document.
func (r *Runner) Compose(ctx context.Context, order []string) error {
	if order == nil {
		order = r.cfg.Compose.Order
	}
	wrapperPath := r.cfg.Path(r.cfg.Wrapper)
	finalPath := r.cfg.Path(r.cfg.Final)
	if fileops.SamePath(wrapperPath, finalPath) {
		r.fail(StepCompose, "final", finalPath, compose.ErrOverwritesWrapper)
		return compose.ErrOverwritesWrapper
	}

	wrapper, err := r.read(wrapperPath)
	if err != nil {
		r.fail(StepCompose, "final", finalPath, err)
		return err
	}

	res, err := compose.Compose(wrapper, order, r.cfg.ComposeOptions())
	if err != nil {
		r.fail(StepCompose, "final", finalPath, err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.cfg.Backup {
		backup, err := r.backupOnce(finalPath)
		if err != nil {
			r.fail(StepCompose, "backup", finalPath, err)
			return err
		}
		if backup != "" {
			r.ok(StepCompose, "backup", backup, "saved the previous final document to "+backup)
		}
	}

	if err := r.write(finalPath, res.Document); err != nil {
		r.fail(StepCompose, "final", finalPath, err)
		return err
	}

	detail := fmt.Sprintf("included %d partials (%s strategy)", len(order), res.Strategy)
	var lines []string
	for i, p := range order {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, p))
	}
	if len(lines) > 0 {
		detail += "\n" + strings.Join(lines, "\n")
	}
	if absent := r.absentPartials(order); len(absent) > 0 {
		detail += "\nwarning: no partial file yet for " + strings.Join(absent, ", ")
	}
	r.ok(StepCompose, "final", finalPath, detail)
	return nil
}

func (r *Runner) absentPartials(order []string) []string {
	var out []string
	for _, p := range order {
		path := r.cfg.PartialPath(p)
		if _, ok := r.pending[path]; ok {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			out = append(out, p)
		}
	}
	return out
}

func (r *Runner) read(path string) (string, error) {
	if content, ok := r.pending[path]; ok {
		return content, nil
	}
	return fileops.ReadDocument(path)
}

// readFirst tries candidates strictly in order; each one is looked up in
// the dry-run overlay and then on disk before the next is considered.
func (r *Runner) readFirst(paths ...string) (string, string, error) {
	return fileops.Reader(r.read).First(paths...)
}

// backupOnce records path+BackupSuffix as an output unless the backup
// already exists (on disk or in the overlay) or path itself does not. It
// returns the backup path when one was written or previewed.
func (r *Runner) backupOnce(path string) (string, error) {
	backup := fileops.BackupPath(path)
	if _, ok := r.pending[backup]; ok || fileops.Exists(backup) {
		logging.FilesDebug("backup %s already present", backup)
		return "", nil
	}
	content, err := r.read(path)
	if errors.Is(err, fileops.ErrMissingInput) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := r.write(backup, content); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return backup, nil
}

func (r *Runner) write(path, content string) error {
	if !r.dryRun {
		if err := fileops.WriteDocument(path, content); err != nil {
			return err
		}
		r.report.Written = append(r.report.Written, path)
		r.report.Outputs = append(r.report.Outputs, newOutput(r.relative(path), content))
		return nil
	}

	old, exists := r.pending[path]
	if !exists {
		var err error
		old, err = fileops.ReadDocument(path)
		exists = err == nil
		if err != nil && !errors.Is(err, fileops.ErrMissingInput) {
			return err
		}
	}
	r.pending[path] = content
	r.report.Outputs = append(r.report.Outputs, newOutput(r.relative(path), content))
	r.sink.Preview(diff.Compute(r.relative(path), old, content, exists))
	return nil
}

func (r *Runner) relative(path string) string {
	if r.cfg.Workspace == "" {
		return path
	}
	rel, err := filepath.Rel(r.cfg.Workspace, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Runner) ok(step Step, target, path, detail string) {
	o := Outcome{Step: step, Target: target, Path: path, OK: true, Detail: detail}
	r.report.Outcomes = append(r.report.Outcomes, o)
	r.sink.Outcome(o)
}

func (r *Runner) fail(step Step, target, path string, err error) {
	o := Outcome{Step: step, Target: target, Path: path, Error: err.Error()}
	r.report.Outcomes = append(r.report.Outcomes, o)
	logging.Get(logging.CategoryRun).Warn("%s %s failed: %v", step, target, err)
	r.sink.Outcome(o)
}

// Preview truncates s to at most limit characters for console display.
// The cut never splits a multi-byte character.
func Preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
