package walk

import (
	"context"
	"io"
	"path/filepath"

	"github.com/TFMV/locscan/internal/scan"
	internal "github.com/TFMV/locscan/internal/walk"
	"go.uber.org/zap"
)

// Re-export the traversal types from the internal package
type (
	// Options configures a traversal.
	Options = internal.Options

	// Walker runs traversals and fires directory and file callbacks.
	Walker = internal.Walker

	// DirFunc is called when entering or leaving a directory.
	DirFunc = internal.DirFunc

	// FileFunc is called for each matched file with its root-relative path.
	FileFunc = internal.FileFunc

	// FilterSet holds compiled inclusion and exclusion patterns.
	FilterSet = internal.FilterSet

	// TraversalError reports a filesystem failure that aborted a traversal.
	TraversalError = internal.TraversalError

	// FilterError reports a pattern that failed to compile.
	FilterError = internal.FilterError

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel
)

// Re-export the statistics types
type (
	// FileStats holds line, word, character and byte counts for one file.
	FileStats = scan.FileStats

	// Totals accumulates FileStats across files.
	Totals = scan.Totals

	// Scanner streams files through the classifier in fixed-size chunks.
	Scanner = scan.Scanner

	// Counter is the streaming classifier, usable as an io.Writer.
	Counter = scan.Counter
)

// Log levels
const (
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug
)

// Errors
var (
	ErrNotDirectory  = internal.ErrNotDirectory
	ErrNegativeDepth = internal.ErrNegativeDepth
)

// NewWalker validates opts and compiles its filters.
func NewWalker(opts Options) (*Walker, error) {
	return internal.NewWalker(opts)
}

// NewFilterSet compiles inclusion and exclusion patterns.
func NewFilterSet(include, exclude []string) (*FilterSet, error) {
	return internal.NewFilterSet(include, exclude)
}

// NormalizePath converts a relative path to the form filters match against.
func NormalizePath(rel string) string {
	return internal.NormalizePath(rel)
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	return internal.NewLogger(level)
}

// LevelFor maps a verbose switch to a log level.
func LevelFor(verbose bool) LogLevel {
	return internal.LevelFor(verbose)
}

// NewScanner returns a Scanner using the default chunk size.
func NewScanner() *Scanner {
	return scan.NewScanner()
}

// NewTotals returns empty totals.
func NewTotals() *Totals {
	return scan.NewTotals()
}

// Scan computes the statistics of everything read from r.
func Scan(ctx context.Context, r io.Reader) (FileStats, error) {
	return scan.NewScanner().Scan(ctx, r)
}

// Count scans every file matched by opts and returns its statistics keyed
// by root-relative path. Files that cannot be read are left out.
func Count(ctx context.Context, opts Options) (map[string]FileStats, error) {
	w, err := NewWalker(opts)
	if err != nil {
		return nil, err
	}
	scanner := NewScanner()
	results := make(map[string]FileStats)
	w.OnFile(func(rel string) error {
		stats, err := scanner.ScanFile(ctx, joinRoot(w.Root(), rel))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		results[rel] = stats
		return nil
	})
	if _, err := w.Traverse(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

func joinRoot(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
