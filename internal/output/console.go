// Package output renders scan progress and results for a terminal.
//
// The walker and scanner never write to the terminal themselves; the driver
// reports through a Presenter so the core can run headless in tests.
package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/TFMV/locscan/internal/scan"
)

// resetSequence restores default terminal attributes.
const resetSequence = "\x1b[0m"

// Metrics selects the optional metrics that are printed. Files,
// directories and LOC are always printed.
type Metrics struct {
	Chars     bool
	Words     bool
	Bytes     bool
	WasteRate bool
}

// AllMetrics enables every optional metric.
func AllMetrics() Metrics {
	return Metrics{Chars: true, Words: true, Bytes: true, WasteRate: true}
}

// Presenter receives everything the driver wants to show the user.
type Presenter interface {
	Header(root string)
	File(relPath string, stats scan.FileStats)
	Progress(files int64)
	Summary(totals *scan.Totals)
	NoMatches()
	Warn(msg string)
	Error(err error)
	Interrupted()
	Close()
}

// ColorEnabled reports whether f is a terminal that should receive color.
// It honors the NO_COLOR convention.
func ColorEnabled(f *os.File, disabled bool) bool {
	if disabled || f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var _ Presenter = (*Console)(nil)

// Console writes human-readable, optionally colored output.
type Console struct {
	w        io.Writer
	metrics  Metrics
	colorize bool

	info  *color.Color
	arg   *color.Color
	warn  *color.Color
	errc  *color.Color
	title *color.Color
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer, metrics Metrics, colorize bool) *Console {
	c := &Console{
		w:        w,
		metrics:  metrics,
		colorize: colorize,
		info:     color.New(color.FgHiCyan),
		arg:      color.New(color.FgHiYellow),
		warn:     color.New(color.FgYellow),
		errc:     color.New(color.FgHiRed),
		title:    color.New(color.FgHiCyan, color.Bold),
	}
	for _, col := range []*color.Color{c.info, c.arg, c.warn, c.errc, c.title} {
		if colorize {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// Header announces the canonical scan root.
func (c *Console) Header(root string) {
	c.write(c.info.Sprint("Scanning from: ") + c.arg.Sprint(strconv.Quote(root)) + "\n")
}

// File prints one line for a matched file.
func (c *Console) File(relPath string, stats scan.FileStats) {
	var b strings.Builder
	b.WriteString(c.field("LOC: ", quoteInt(stats.Lines)))
	if c.metrics.Words {
		b.WriteString(c.field(", Words: ", quoteInt(stats.Words)))
	}
	if c.metrics.Chars {
		b.WriteString(c.field(", Chars: ", quoteInt(stats.Chars)))
	}
	if c.metrics.Bytes {
		b.WriteString(c.field(", Bytes: ", quoteInt(stats.Bytes)))
	}
	if c.metrics.WasteRate {
		b.WriteString(c.field(", Waste rate: ", quotePercent(stats.WasteRate())))
	}
	b.WriteString(c.field(", In: ", strconv.Quote(relPath)))
	b.WriteString("\n")
	c.write(b.String())
}

// Progress rewrites the running file counter in place.
func (c *Console) Progress(files int64) {
	c.write("\r" + c.field("Files: ", quoteInt(files)))
}

// Summary prints the result block.
func (c *Console) Summary(t *scan.Totals) {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(c.title.Sprint("locscan result:") + "\n")
	b.WriteString(c.total(quoteInt(int64(t.Directories())), "Directories"))
	b.WriteString(c.total(quoteInt(t.Files), "Files"))
	if c.metrics.Bytes {
		b.WriteString(c.total(quoteInt(t.Bytes), "Bytes"))
	}
	b.WriteString(c.total(quoteInt(t.Lines), "LOC"))
	if c.metrics.Words {
		b.WriteString(c.total(quoteInt(t.Words), "Words"))
	}
	if c.metrics.Chars {
		b.WriteString(c.total(quoteInt(t.Chars), "Chars"))
	}
	if c.metrics.WasteRate {
		b.WriteString(c.total(quotePercent(t.WasteRate()), "Waste rate"))
	}
	c.write(b.String())
}

// NoMatches reports that the filters matched nothing.
func (c *Console) NoMatches() {
	c.write(c.errc.Sprint("Error: Found no matching files!") + "\n")
}

// Warn prints a non-fatal warning.
func (c *Console) Warn(msg string) {
	c.write(c.warn.Sprint("Warning: "+msg) + "\n")
}

// Error prints a fatal error.
func (c *Console) Error(err error) {
	c.write(c.errc.Sprint("Error: "+err.Error()) + "\n")
}

// Interrupted acknowledges a user interrupt.
func (c *Console) Interrupted() {
	c.write("\n^C\n")
}

// Close restores the terminal's default attributes.
func (c *Console) Close() {
	if c.colorize {
		c.write(resetSequence)
	}
}

func (c *Console) field(label, value string) string {
	return c.info.Sprint(label) + c.arg.Sprint(value)
}

func (c *Console) total(value, label string) string {
	return "\t" + c.arg.Sprint(value) + " " + c.info.Sprint(label) + "\n"
}

func (c *Console) write(s string) {
	fmt.Fprint(c.w, s)
}

func quoteInt(n int64) string {
	return "'" + strconv.FormatInt(n, 10) + "'"
}

func quotePercent(v float64) string {
	return "'" + strconv.FormatFloat(v, 'g', 6, 64) + "%'"
}
