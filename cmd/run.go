package cmd

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/TFMV/locscan/internal/output"
	"github.com/TFMV/locscan/internal/scan"
	"github.com/TFMV/locscan/internal/walk"
)

// Config is the fully resolved configuration of one scan.
type Config struct {
	Root           string
	Include        []string
	Exclude        []string
	FollowSymlinks bool
	MaxDepth       int
	GitIgnore      bool
	PrintFiles     bool
	Metrics        output.Metrics
}

// Run scans cfg.Root and reports through p. Failures have already been
// reported through p when Run returns; the returned *ExitError only carries
// the exit status.
func Run(ctx context.Context, cfg Config, p output.Presenter, logger *zap.Logger) error {
	root, err := resolveRoot(cfg.Root)
	if err != nil {
		p.Error(err)
		return &ExitError{Code: ExitFailure, Err: err}
	}
	p.Header(filepath.ToSlash(root))

	walker, err := walk.NewWalker(walk.Options{
		Root:           root,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		FollowSymlinks: cfg.FollowSymlinks,
		MaxDepth:       cfg.MaxDepth,
		GitIgnore:      cfg.GitIgnore,
		Logger:         logger,
	})
	if err != nil {
		p.Error(err)
		return &ExitError{Code: ExitFailure, Err: err}
	}

	scanner := scan.NewScanner()
	totals := scan.NewTotals()

	walker.OnFile(func(relPath string) error {
		stats, err := scanner.ScanFile(ctx, filepath.Join(root, filepath.FromSlash(relPath)))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Unreadable files are left out of the totals.
			logger.Debug("skipping unreadable file", zap.String("path", relPath), zap.Error(err))
			return nil
		}

		totals.Add(relPath, stats)
		if cfg.PrintFiles && stats.Lines > 0 {
			p.File(relPath, stats)
		} else {
			p.Progress(totals.Files)
		}
		return nil
	})

	matches, err := walker.Traverse(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		p.Interrupted()
		return &ExitError{Code: ExitInterrupted, Err: err}
	case err != nil:
		p.Error(err)
		return &ExitError{Code: ExitFailure, Err: err}
	case matches == 0 || totals.Files == 0:
		// Matched files that could not be read are not counted either.
		p.NoMatches()
		return &ExitError{Code: ExitFailure, Err: ErrNoMatches}
	}

	logger.Debug("scan complete",
		zap.Int("matches", matches),
		zap.Int64("files", totals.Files),
		zap.Int64("bytes", totals.Bytes),
		zap.Int64("loc", totals.Lines),
	)
	p.Summary(totals)
	return nil
}

// resolveRoot returns the absolute, symlink-free form of root.
func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &walk.TraversalError{Path: root, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &walk.TraversalError{Path: root, Err: err}
	}
	return resolved, nil
}
