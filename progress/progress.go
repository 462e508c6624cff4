// Package progress renders a single-line terminal progress bar for
// transfers whose total size may be unknown.
//
// Every [Bar.Update] redraws the line in place with a leading carriage
// return; once the count reaches a known total the line is terminated.
//
//	bar := progress.New(os.Stderr, progress.WithPrefix("Downloading"))
//	bar.Update(50, 100) // Downloading |█████████████████████████-------------------------| 50.0% (50 B / 100 B)
//	bar.Update(100, 100)
package progress

import (
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultWidth is the number of cells in the bar.
	DefaultWidth = 50
	// DefaultFill marks completed cells.
	DefaultFill = '█'
	// Unavailable replaces the percentage when the total isn't known.
	Unavailable = "unavailable"

	emptyFill = '-'
)

// Bar draws progress onto a writer, normally the error stream.
// It isn't safe for concurrent use.
type Bar struct {
	w      io.Writer
	prefix string
	suffix string
	width  int
	fill   rune

	last string
	open bool
}

// Option configures a [Bar].
type Option func(*Bar)

// WithPrefix sets the label drawn before the bar.
func WithPrefix(s string) Option {
	return func(b *Bar) { b.prefix = s }
}

// WithSuffix sets the label drawn after the counts.
func WithSuffix(s string) Option {
	return func(b *Bar) { b.suffix = s }
}

// WithWidth sets the number of cells; non-positive values keep the default.
func WithWidth(n int) Option {
	return func(b *Bar) {
		if n > 0 {
			b.width = n
		}
	}
}

// WithFill sets the rune used for completed cells.
func WithFill(r rune) Option {
	return func(b *Bar) { b.fill = r }
}

// New returns a Bar drawing onto w.
func New(w io.Writer, opts ...Option) *Bar {
	b := &Bar{
		w:     w,
		width: DefaultWidth,
		fill:  DefaultFill,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Render formats one line of progress without control characters.
// A total of zero or less is treated as unknown.
func (b *Bar) Render(current, total int64) string {
	var filled int
	var status string

	switch {
	case total > 0:
		ratio := float64(current) / float64(total)
		ratio = min(max(ratio, 0), 1)
		filled = int(ratio * float64(b.width))
		status = fmt.Sprintf("%.1f%% (%s / %s)", ratio*100, FormatBytes(current), FormatBytes(total))
	default:
		status = fmt.Sprintf("%s (%s)", Unavailable, FormatBytes(current))
	}

	bar := strings.Repeat(string(b.fill), filled) + strings.Repeat(string(emptyFill), b.width-filled)

	parts := make([]string, 0, 4)
	if b.prefix != "" {
		parts = append(parts, b.prefix)
	}
	parts = append(parts, "|"+bar+"|", status)
	if b.suffix != "" {
		parts = append(parts, b.suffix)
	}

	return strings.Join(parts, " ")
}

// Update redraws the line for current of total bytes. The line is
// terminated once current reaches a known total.
func (b *Bar) Update(current, total int64) {
	line := b.Render(current, total)
	if line != b.last {
		b.last = line
		b.open = true
		fmt.Fprint(b.w, "\r"+line)
	}

	if total > 0 && current >= total {
		b.end()
	}
}

// Finish terminates a line Update left open, as happens for unknown
// totals and aborted transfers.
func (b *Bar) Finish() {
	b.end()
}

func (b *Bar) end() {
	if !b.open {
		return
	}
	b.open = false
	fmt.Fprintln(b.w)
}

// FormatBytes renders n with a binary unit and one decimal place.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}
