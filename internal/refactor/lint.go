package refactor

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bladesplit/internal/fileops"
	"bladesplit/internal/section"
)

// FileLint is the lint result for one template.
type FileLint struct {
	Path   string
	Report section.LintReport
}

// LintFiles lints every path concurrently. Results keep the order of
// paths; the first unreadable file fails the whole call.
func LintFiles(ctx context.Context, c section.Convention, paths ...string) ([]FileLint, error) {
	out := make([]FileLint, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			doc, err := fileops.ReadDocument(p)
			if err != nil {
				return err
			}
			out[i] = FileLint{Path: p, Report: section.Lint(doc, c)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
