package walk

import "path/filepath"

// symlinkGuard tracks the resolved paths of the directories currently being
// traversed, parallel to the traversal stack. Following a symlink whose
// target is one of them would loop forever.
type symlinkGuard struct {
	ancestors []string
}

func newSymlinkGuard() *symlinkGuard {
	return &symlinkGuard{}
}

func (g *symlinkGuard) push(dir string) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	g.ancestors = append(g.ancestors, resolved)
}

func (g *symlinkGuard) pop() {
	g.ancestors = g.ancestors[:len(g.ancestors)-1]
}

// isCyclic reports whether the symlink at path resolves to a directory that
// is already open. Unresolvable links are treated as cyclic.
func (g *symlinkGuard) isCyclic(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return true
	}
	for _, dir := range g.ancestors {
		if dir == resolved {
			return true
		}
	}
	return false
}
