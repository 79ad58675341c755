// Package screen models captured terminal frames and computes which lines
// are new between successive captures of the same pane.
package screen

import (
	"strings"
)

// Frame is an immutable capture of pane content.
type Frame struct {
	lines []string
	raw   string
}

// NewFrame creates a Frame from raw capture-pane output. It normalizes line
// endings and trims the trailing newline emitted by capture-pane.
func NewFrame(raw string) *Frame {
	// Normalize line endings.
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	// Remove single trailing newline from capture-pane output.
	raw = strings.TrimSuffix(raw, "\n")

	return &Frame{
		lines: strings.Split(raw, "\n"),
		raw:   raw,
	}
}

// String returns the full frame content as a string.
func (f *Frame) String() string {
	return f.raw
}

// Lines returns a copy of the frame content as a slice of strings, one per
// row. The returned slice is a shallow copy; callers may modify it without
// affecting the Frame.
func (f *Frame) Lines() []string {
	cp := make([]string, len(f.lines))
	copy(cp, f.lines)
	return cp
}

// Line returns the content of a single row (0-indexed).
// Panics if n is out of range.
func (f *Frame) Line(n int) string {
	return f.lines[n]
}

// Contains reports whether the frame contains the substring.
func (f *Frame) Contains(substr string) bool {
	return strings.Contains(f.raw, substr)
}

// Collapsed joins all rows into one space-separated string with per-row
// whitespace trimmed. NetHack wraps long messages across rows, so patterns
// that may span a row boundary are matched against the collapsed form.
func (f *Frame) Collapsed() string {
	trimmed := make([]string, len(f.lines))
	for i, l := range f.lines {
		trimmed[i] = strings.TrimSpace(l)
	}
	return strings.Join(trimmed, " ")
}

// Equal reports whether two frames have identical content. A nil frame is
// only equal to another nil frame.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.raw == other.raw
}
