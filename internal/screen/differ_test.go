package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(lines ...string) *Frame {
	f := ""
	for _, l := range lines {
		f += l + "\n"
	}
	return NewFrame(f)
}

func TestDifferFirstCapture(t *testing.T) {
	d := NewDiffer()
	got := d.Advance(frame("alpha", "beta", "", "gamma"))

	// Bottom-most non-blank line is withheld until the next capture.
	assert.Equal(t, []string{"alpha", "beta"}, got)

	got = d.Advance(frame("alpha", "beta", "", "gamma"))
	assert.Equal(t, []string{"gamma"}, got)
}

func TestDifferUnchangedIsNoOp(t *testing.T) {
	d := NewDiffer()
	f := frame("one", "two")
	d.Advance(f)
	d.Advance(f) // flushes the withheld bottom line

	for i := 0; i < 3; i++ {
		assert.Empty(t, d.Advance(f), "capture %d", i)
	}
}

func TestDifferScrollOverlap(t *testing.T) {
	d := NewDiffer()
	d.Advance(frame("l1", "l2", "l3"))
	d.Advance(frame("l1", "l2", "l3"))

	// Two lines scrolled in; l4 is complete (not bottom-most), l5 withheld.
	got := d.Advance(frame("l3", "l4", "l5"))
	require.Equal(t, []string{"l4"}, got)

	got = d.Advance(frame("l3", "l4", "l5"))
	assert.Equal(t, []string{"l5"}, got)
}

func TestDifferTopLineMessage(t *testing.T) {
	// NetHack redraws the message row in place; the rest of the frame is
	// unchanged, so only the new message should be reported.
	d := NewDiffer()
	d.Advance(frame("", "@....", "Dlvl:1 $:0 HP:16(16)"))
	d.Advance(frame("", "@....", "Dlvl:1 $:0 HP:16(16)"))

	got := d.Advance(frame("You hear a door open.", "@....", "Dlvl:1 $:0 HP:16(16)"))
	assert.Equal(t, []string{"You hear a door open."}, got)
}

func TestDifferClippedCaptureReportsAll(t *testing.T) {
	d := NewDiffer()
	d.Advance(frame("a", "b", "c", "d"))
	d.Advance(frame("a", "b", "c", "d"))

	// Entirely different, shorter capture: everything is new.
	got := d.Advance(frame("x", "y"))
	assert.Equal(t, []string{"x"}, got)
	got = d.Advance(frame("x", "y"))
	assert.Equal(t, []string{"y"}, got)
}

func TestDifferPartialLineExtended(t *testing.T) {
	d := NewDiffer()
	d.Advance(frame("done", "You see he"))

	// The withheld partial line was extended: only the full line is
	// reported, after its own one-capture deferral.
	got := d.Advance(frame("done", "You see here a ruby potion."))
	assert.Empty(t, got)

	got = d.Advance(frame("done", "You see here a ruby potion."))
	assert.Equal(t, []string{"You see here a ruby potion."}, got)
}

func TestDifferRepeatedIdenticalLines(t *testing.T) {
	d := NewDiffer()
	d.Advance(frame("ouch", "pad"))
	d.Advance(frame("ouch", "pad"))

	// A second identical "ouch" scrolls in below the first.
	got := d.Advance(frame("ouch", "pad", "ouch"))
	assert.Empty(t, got) // withheld
	got = d.Advance(frame("ouch", "pad", "ouch"))
	assert.Equal(t, []string{"ouch"}, got)
}

func TestDifferNeverPanicsOnMalformedInput(t *testing.T) {
	d := NewDiffer()
	assert.NotPanics(t, func() {
		d.Advance(NewFrame(""))
		d.Advance(NewFrame("\r\n\r\n"))
		d.Advance(NewFrame("x"))
		d.Advance(NewFrame(""))
	})
}

func TestFrameCollapsed(t *testing.T) {
	f := frame("  a line with trailing   ", "and a wrapped", "tail  ")
	assert.Equal(t, "a line with trailing and a wrapped tail", f.Collapsed())
}

func TestFrameEqual(t *testing.T) {
	a := frame("x", "y")
	b := frame("x", "y")
	c := frame("x")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
