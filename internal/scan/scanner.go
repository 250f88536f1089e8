package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the read size used when Scanner.ChunkSize is unset.
const DefaultChunkSize = 16 * 1024

// Scanner streams files through a Counter using a fixed-size buffer, so
// memory use does not grow with file size. A Scanner reuses its buffer and
// must not be used from more than one goroutine at a time.
type Scanner struct {
	ChunkSize int

	buf []byte
}

// NewScanner returns a Scanner that reads DefaultChunkSize bytes at a time.
func NewScanner() *Scanner {
	return &Scanner{ChunkSize: DefaultChunkSize}
}

// Scan reads r to EOF and returns its statistics. ctx is checked between
// chunks.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) (FileStats, error) {
	buf := s.buffer()
	var c Counter
	for {
		if err := ctx.Err(); err != nil {
			return FileStats{}, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			c.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return FileStats{}, fmt.Errorf("scan: read failed: %w", err)
		}
	}
	return c.Stats(), nil
}

// ScanFile opens path, scans it and closes it again.
func (s *Scanner) ScanFile(ctx context.Context, path string) (FileStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileStats{}, err
	}
	defer f.Close()

	stats, err := s.Scan(ctx, f)
	if err != nil {
		return FileStats{}, fmt.Errorf("%s: %w", path, err)
	}
	return stats, nil
}

func (s *Scanner) buffer() []byte {
	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(s.buf) != size {
		s.buf = make([]byte, size)
	}
	return s.buf
}
