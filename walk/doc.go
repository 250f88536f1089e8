// Package walk exposes the locscan traversal and text statistics as a
// library.
//
// Counting the lines of every Go file below a directory:
//
//	w, err := walk.NewWalker(walk.Options{
//		Root:    "/path/to/repo",
//		Include: []string{`.*\.go`},
//		Exclude: []string{`vendor/.*`},
//	})
//	if err != nil {
//		return err
//	}
//	scanner := walk.NewScanner()
//	totals := walk.NewTotals()
//	w.OnFile(func(rel string) error {
//		stats, err := scanner.ScanFile(ctx, filepath.Join(w.Root(), rel))
//		if err != nil {
//			return nil
//		}
//		totals.Add(rel, stats)
//		return nil
//	})
//	n, err := w.Traverse(ctx)
//
// Directory events arrive through OnEnterDirectory and OnLeaveDirectory and
// are always balanced.
package walk
