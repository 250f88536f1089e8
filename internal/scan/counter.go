// Package scan computes per-file text statistics in a single streaming pass.
package scan

// Counter classifies a byte stream into lines, words and non-whitespace
// characters. It implements io.Writer so the stream can arrive in chunks of
// any size; the totals do not depend on where chunks are split.
//
// A line counts only if it contains at least one word. A word is a maximal
// run of bytes that are not whitespace.
type Counter struct {
	lines int64
	words int64
	chars int64
	bytes int64

	lineWords int64 // words completed on the current line
	run       int64 // length of the word in progress
}

// Write feeds p through the classifier. It never fails.
func (c *Counter) Write(p []byte) (int, error) {
	for _, b := range p {
		switch {
		case b == '\n':
			c.endLine()
		case isSpace(b):
			c.endWord()
		default:
			c.run++
		}
	}
	c.bytes += int64(len(p))
	return len(p), nil
}

// Stats returns the counters as if the stream ended now. The pending word
// and line are flushed on a copy, so writing may continue afterwards.
func (c *Counter) Stats() FileStats {
	final := *c
	final.endLine()
	return FileStats{
		Lines: final.lines,
		Words: final.words,
		Chars: final.chars,
		Bytes: final.bytes,
	}
}

// Reset clears all counters.
func (c *Counter) Reset() {
	*c = Counter{}
}

func (c *Counter) endWord() {
	if c.run > 0 {
		c.lineWords++
		c.chars += c.run
		c.run = 0
	}
}

func (c *Counter) endLine() {
	c.endWord()
	if c.lineWords > 0 {
		c.lines++
		c.words += c.lineWords
		c.lineWords = 0
	}
}

// isSpace matches the C locale isspace set.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
