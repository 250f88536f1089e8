// Package walk implements the directory traversal behind locscan: a
// depth-bounded pre-order walk that reports balanced enter/leave events for
// directories and filtered, root-relative paths for regular files.
package walk

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// DirFunc is called when the walker enters or leaves a directory.
// The path is the directory's OS path under the root.
type DirFunc func(path string) error

// FileFunc is called for every regular file that passes the filters.
// The path is relative to the root and uses forward slashes.
type FileFunc func(relPath string) error

// Options configures a traversal. It must not be modified once Traverse runs.
type Options struct {
	Root           string   // Directory to scan, "." when empty
	Include        []string // Inclusion regexes, any one must full-match
	Exclude        []string // Exclusion regexes, take precedence over Include
	FollowSymlinks bool     // Descend into symlinked directories
	MaxDepth       int      // Maximum nesting depth, 0 for unlimited
	GitIgnore      bool     // Honor <root>/.gitignore
	Logger         *zap.Logger
	LogLevel       LogLevel // Used to build a logger when Logger is nil
}

// Walker runs traversals for a fixed set of options and callbacks.
type Walker struct {
	opts    Options
	filter  *FilterSet
	logger  *zap.Logger
	onEnter DirFunc
	onLeave DirFunc
	onFile  FileFunc
}

// NewWalker validates opts and compiles its filters.
func NewWalker(opts Options) (*Walker, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.MaxDepth < 0 {
		return nil, ErrNegativeDepth
	}

	filter, err := NewFilterSet(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.LogLevel)
	}

	return &Walker{
		opts:   opts,
		filter: filter,
		logger: logger,
	}, nil
}

// Root returns the directory the walker starts from.
func (w *Walker) Root() string {
	return w.opts.Root
}

// OnEnterDirectory registers the callback fired before a directory's contents are visited.
func (w *Walker) OnEnterDirectory(fn DirFunc) {
	w.onEnter = fn
}

// OnLeaveDirectory registers the callback fired after a directory's contents were visited.
func (w *Walker) OnLeaveDirectory(fn DirFunc) {
	w.onLeave = fn
}

// OnFile registers the callback fired for each matched file.
func (w *Walker) OnFile(fn FileFunc) {
	w.onFile = fn
}

// --------------------------------------------------------------------------
// Traversal
// --------------------------------------------------------------------------

// Traverse walks the tree and returns the number of matched files.
//
// Every directory that is entered is left exactly once, innermost first,
// including when the walk is aborted by an error or by ctx.
func (w *Walker) Traverse(ctx context.Context) (int, error) {
	root := filepath.Clean(w.opts.Root)
	root, err := openRoot(root)
	if err != nil {
		return 0, err
	}

	t := &traversal{
		walker: w,
		ctx:    ctx,
		root:   root,
	}
	if w.opts.FollowSymlinks {
		t.guard = newSymlinkGuard()
	}
	if w.opts.GitIgnore {
		t.ignore = loadGitIgnore(root, w.logger)
	}

	w.logger.Debug("starting traversal",
		zap.String("root", root),
		zap.Int("max_depth", w.opts.MaxDepth),
		zap.Bool("follow_symlinks", w.opts.FollowSymlinks),
		zap.Int("include_filters", len(w.opts.Include)),
		zap.Int("exclude_filters", len(w.opts.Exclude)),
	)

	walkErr := godirwalk.Walk(root, &godirwalk.Options{
		Callback:            t.visit,
		ErrorCallback:       t.onError,
		FollowSymbolicLinks: w.opts.FollowSymlinks,
	})

	// Directories still open are left even when the walk was aborted.
	unwindErr := t.unwind()

	switch {
	case ctx.Err() != nil:
		w.logger.Debug("traversal canceled", zap.String("root", root), zap.Int("matches", t.matches))
		return t.matches, ctx.Err()
	case t.callbackErr != nil:
		return t.matches, t.callbackErr
	case walkErr != nil:
		path := t.errPath
		if path == "" {
			path = root
		}
		return t.matches, &TraversalError{Path: path, Err: walkErr}
	case unwindErr != nil:
		return t.matches, unwindErr
	}

	w.logger.Debug("traversal finished", zap.String("root", root), zap.Int("matches", t.matches))
	return t.matches, nil
}

// openRoot verifies that root exists, is a directory, and can be read.
// A symlinked root is resolved so that the walk always starts at a directory.
func openRoot(root string) (string, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return "", &TraversalError{Path: root, Err: err}
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			return "", &TraversalError{Path: root, Err: err}
		}
		root = resolved
		if info, err = os.Stat(root); err != nil {
			return "", &TraversalError{Path: root, Err: err}
		}
	}
	if !info.IsDir() {
		return "", &TraversalError{Path: root, Err: ErrNotDirectory}
	}

	f, err := os.Open(root)
	if err != nil {
		return "", &TraversalError{Path: root, Err: err}
	}
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return "", &TraversalError{Path: root, Err: err}
	}
	f.Close()
	return root, nil
}

// entryKind classifies a directory entry after symlink resolution.
type entryKind int

const (
	kindOther entryKind = iota
	kindDir
	kindFile
	kindCycle
)

// traversal holds the state of a single Traverse call.
type traversal struct {
	walker *Walker
	ctx    context.Context
	root   string

	// stack is the chain of entered directories, root first. Its top is
	// always the parent of the entry currently being visited.
	stack   []string
	matches int

	guard  *symlinkGuard
	ignore gitignore.IgnoreMatcher

	callbackErr error
	errPath     string
}

func (t *traversal) visit(osPathname string, de *godirwalk.Dirent) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}

	if osPathname == t.root {
		return t.enter(osPathname)
	}

	if err := t.ascendTo(filepath.Dir(osPathname)); err != nil {
		return err
	}

	rel, err := filepath.Rel(t.root, osPathname)
	if err != nil {
		return err
	}

	switch t.classify(osPathname, de) {
	case kindDir:
		return t.visitDir(osPathname, rel)
	case kindFile:
		return t.visitFile(osPathname, rel)
	case kindCycle:
		return godirwalk.SkipThis
	}
	return nil
}

// classify resolves what an entry is. Symlinks to regular files count as
// files; symlinks to directories are directories only when followed.
func (t *traversal) classify(osPathname string, de *godirwalk.Dirent) entryKind {
	switch {
	case de.IsSymlink():
		info, err := os.Stat(osPathname)
		if err != nil {
			t.walker.logger.Debug("skipping unresolvable symlink", zap.String("path", osPathname), zap.Error(err))
			return kindOther
		}
		if info.Mode().IsRegular() {
			return kindFile
		}
		if !info.IsDir() || !t.walker.opts.FollowSymlinks {
			return kindOther
		}
		if t.guard.isCyclic(osPathname) {
			t.walker.logger.Debug("skipping symlink cycle", zap.String("path", osPathname))
			return kindCycle
		}
		return kindDir
	case de.IsDir():
		return kindDir
	case de.IsRegular():
		return kindFile
	}
	return kindOther
}

func (t *traversal) visitDir(osPathname, rel string) error {
	if t.ignore != nil && t.ignore.Match(osPathname, true) {
		t.walker.logger.Debug("skipping ignored directory", zap.String("path", rel))
		return godirwalk.SkipThis
	}

	if err := t.enter(osPathname); err != nil {
		return err
	}

	maxDepth := t.walker.opts.MaxDepth
	if maxDepth > 0 && depth(rel) >= maxDepth {
		t.walker.logger.Debug("depth limit reached", zap.String("path", rel), zap.Int("max_depth", maxDepth))
		return godirwalk.SkipThis
	}
	return nil
}

func (t *traversal) visitFile(osPathname, rel string) error {
	if t.ignore != nil && t.ignore.Match(osPathname, false) {
		return nil
	}

	relPath := NormalizePath(rel)
	if !t.walker.filter.Match(relPath) {
		return nil
	}

	if fn := t.walker.onFile; fn != nil {
		if err := fn(relPath); err != nil {
			t.callbackErr = err
			return err
		}
	}
	t.matches++
	return nil
}

// onError decides whether a traversal error is fatal. Unreadable
// subdirectories and dangling or looping symlinks are skipped; everything
// else halts the walk.
func (t *traversal) onError(osPathname string, err error) godirwalk.ErrorAction {
	if t.callbackErr == nil && t.ctx.Err() == nil && osPathname != t.root && skippable(osPathname, err) {
		t.walker.logger.Debug("skipping unreadable entry", zap.String("path", osPathname), zap.Error(err))
		return godirwalk.SkipNode
	}
	t.errPath = osPathname
	return godirwalk.Halt
}

func skippable(osPathname string, err error) bool {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	info, lerr := os.Lstat(osPathname)
	return lerr == nil && info.Mode()&os.ModeSymlink != 0
}

func (t *traversal) enter(dir string) error {
	t.stack = append(t.stack, dir)
	if t.guard != nil {
		t.guard.push(dir)
	}
	if fn := t.walker.onEnter; fn != nil {
		if err := fn(dir); err != nil {
			t.callbackErr = err
			return err
		}
	}
	return nil
}

func (t *traversal) leave() error {
	dir := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if t.guard != nil {
		t.guard.pop()
	}
	if fn := t.walker.onLeave; fn != nil {
		if err := fn(dir); err != nil {
			if t.callbackErr == nil {
				t.callbackErr = err
			}
			return err
		}
	}
	return nil
}

// ascendTo leaves directories until parent is on top of the stack.
func (t *traversal) ascendTo(parent string) error {
	for len(t.stack) > 0 && t.stack[len(t.stack)-1] != parent {
		if err := t.leave(); err != nil {
			return err
		}
	}
	return nil
}

// unwind leaves every directory still on the stack. Leave callbacks keep
// firing after an error so that the event sequence stays balanced.
func (t *traversal) unwind() error {
	var errs []error
	for len(t.stack) > 0 {
		if err := t.leave(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// depth returns the nesting level of a root-relative path; direct children
// of the root are at depth 0.
func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator))
}

// loadGitIgnore parses <root>/.gitignore, returning nil when there is none.
func loadGitIgnore(root string, logger *zap.Logger) gitignore.IgnoreMatcher {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(path, root)
	if err != nil {
		logger.Warn("could not parse .gitignore", zap.String("path", path), zap.Error(err))
		return nil
	}
	return matcher
}
