package screen

import (
	"strings"
)

// Differ converts successive captures of one pane into the sequence of lines
// that newly appeared between captures.
//
// Captures of an unchanged pane produce nothing. When the pane scrolls, the
// still-visible tail of the previous capture is recognized as a prefix of
// the new one and only the remainder is reported. When no overlap can be
// found (scrollback clipped, full redraw) the whole capture is reported;
// over-reporting is safe because all consumers are idempotent matchers.
//
// The bottom-most non-blank line of a capture may still be mid-draw, so it
// is withheld until a later capture shows it unchanged. A withheld line that
// a later capture shows extended is discarded; the extended line is reported
// instead.
type Differ struct {
	prev    []string
	started bool
	pending string
}

// NewDiffer returns a Differ with no capture history.
func NewDiffer() *Differ {
	return &Differ{}
}

// Advance records the capture and returns the lines that are new since the
// previous call, oldest first. Blank lines are never reported.
func (d *Differ) Advance(f *Frame) []string {
	cur := trimLines(f.Lines())

	var out []string

	// Flush or discard the line withheld from the previous capture.
	if d.pending != "" {
		if !extendsLine(cur, d.pending) {
			out = append(out, d.pending)
		}
		d.pending = ""
	}

	fresh := d.freshLines(cur)

	// Withhold the bottom-most non-blank line: it may still be mid-draw.
	if n := len(fresh); n > 0 && fresh[n-1] == lastNonBlank(cur) {
		d.pending = fresh[n-1]
		fresh = fresh[:n-1]
	}

	out = append(out, fresh...)
	d.prev = cur
	d.started = true
	return out
}

// freshLines returns the non-blank lines of cur that were not visible in the
// previous capture.
func (d *Differ) freshLines(cur []string) []string {
	if !d.started {
		return nonBlank(cur)
	}
	if linesEqual(d.prev, cur) {
		return nil
	}

	// Largest k where the tail of the previous capture reappears as the
	// head of the new one: the unscrolled region.
	k := overlap(d.prev, cur)

	// Within the remainder, drop lines still visible from the part of the
	// previous capture not already matched by the overlap (count-aware, so
	// repeated identical messages survive).
	seen := make(map[string]int, len(d.prev))
	for _, l := range d.prev[:len(d.prev)-k] {
		if l != "" {
			seen[l]++
		}
	}
	var fresh []string
	for _, l := range cur[k:] {
		if l == "" {
			continue
		}
		if seen[l] > 0 {
			seen[l]--
			continue
		}
		fresh = append(fresh, l)
	}
	return fresh
}

func overlap(prev, cur []string) int {
	max := len(prev)
	if len(cur) < max {
		max = len(cur)
	}
	for k := max; k > 0; k-- {
		if linesEqual(prev[len(prev)-k:], cur[:k]) {
			return k
		}
	}
	return 0
}

func trimLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, " ")
	}
	return out
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func lastNonBlank(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}
	return ""
}

// extendsLine reports whether any line of cur is a proper extension of s,
// meaning s was a partial draw of it.
func extendsLine(cur []string, s string) bool {
	for _, l := range cur {
		if l != s && strings.HasPrefix(l, s) {
			return true
		}
	}
	return false
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
