package scan

import "path"

// FileStats holds the counters for one file.
type FileStats struct {
	Lines int64 // Lines containing at least one word
	Words int64 // Maximal runs of non-whitespace bytes
	Chars int64 // Non-whitespace bytes
	Bytes int64 // Bytes read
}

// WasteRate returns the percentage of bytes that are whitespace.
func (s FileStats) WasteRate() float64 {
	return wasteRate(s.Chars, s.Bytes)
}

// Totals accumulates FileStats across a scan. The zero value is ready to use.
type Totals struct {
	Files int64
	Bytes int64
	Lines int64
	Words int64
	Chars int64

	dirs map[string]struct{}
}

// NewTotals returns empty totals.
func NewTotals() *Totals {
	return &Totals{dirs: make(map[string]struct{})}
}

// Add records the stats of the file at relPath, a forward-slash path
// relative to the scan root.
func (t *Totals) Add(relPath string, s FileStats) {
	if t.dirs == nil {
		t.dirs = make(map[string]struct{})
	}
	t.dirs[path.Dir(relPath)] = struct{}{}

	t.Files++
	t.Bytes += s.Bytes
	t.Lines += s.Lines
	t.Words += s.Words
	t.Chars += s.Chars
}

// Directories returns the number of distinct directories that contain
// at least one counted file.
func (t *Totals) Directories() int {
	return len(t.dirs)
}

// WasteRate returns the whitespace percentage over all counted bytes.
func (t *Totals) WasteRate() float64 {
	return wasteRate(t.Chars, t.Bytes)
}

func wasteRate(chars, bytes int64) float64 {
	if bytes == 0 {
		return 0
	}
	return 100.0 - (float64(chars)/float64(bytes))*100.0
}
