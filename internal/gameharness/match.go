package gameharness

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cboone/hackwatch/internal/screen"
)

// A Matcher reports whether a frame satisfies a condition. The string
// return is a human-readable description for failure messages.
type Matcher func(f *screen.Frame) (ok bool, description string)

// Text matches if the frame contains the substring anywhere.
func Text(s string) Matcher {
	return func(f *screen.Frame) (bool, string) {
		return f.Contains(s), fmt.Sprintf("screen to contain %q", s)
	}
}

// Regexp matches if the frame content matches the regular expression.
// An invalid pattern panics.
func Regexp(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(f *screen.Frame) (bool, string) {
		return re.MatchString(f.String()), fmt.Sprintf("screen to match regexp %q", pattern)
	}
}

// Line matches if row n (0-indexed) equals s after trimming trailing
// spaces.
func Line(n int, s string) Matcher {
	return func(f *screen.Frame) (bool, string) {
		desc := fmt.Sprintf("line %d to equal %q", n, s)
		lines := f.Lines()
		if n < 0 || n >= len(lines) {
			return false, desc
		}
		return strings.TrimRight(lines[n], " ") == s, desc
	}
}

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return func(f *screen.Frame) (bool, string) {
		ok, desc := m(f)
		return !ok, "NOT(" + desc + ")"
	}
}

// All matches when every provided matcher matches.
func All(matchers ...Matcher) Matcher {
	return func(f *screen.Frame) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(f)
			descs = append(descs, desc)
			if !ok {
				return false, "all of: " + strings.Join(descs, ", ")
			}
		}
		return true, "all of: " + strings.Join(descs, ", ")
	}
}

// Any matches when at least one provided matcher matches.
func Any(matchers ...Matcher) Matcher {
	return func(f *screen.Frame) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(f)
			descs = append(descs, desc)
			if ok {
				return true, "any of: " + strings.Join(descs, ", ")
			}
		}
		return false, "any of: " + strings.Join(descs, ", ")
	}
}
