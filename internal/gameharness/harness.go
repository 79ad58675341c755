// Package gameharness runs a tty program inside an isolated tmux server
// for end-to-end tests. Each test gets its own server on a private socket,
// torn down via t.Cleanup, so parallel tests never collide with each other
// or with the user's real tmux.
package gameharness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cboone/hackwatch/internal/screen"
	"github.com/cboone/hackwatch/internal/tmuxcli"
)

const (
	minTmuxVersion = "3.0"
	defaultTimeout = 5 * time.Second
	pollEvery      = 50 * time.Millisecond
	captureHistory = 3
)

// Game is a handle to a program running in the private tmux session.
type Game struct {
	t      testing.TB
	runner *tmuxcli.Runner
	pane   string
}

// Start launches the binary in a fresh tmux session of 80x24 and waits for
// the pane to exist. Tests are skipped when no usable tmux is around.
func Start(t testing.TB, binary string, args ...string) *Game {
	t.Helper()

	tmuxPath := findTmux(t)
	socketPath := filepath.Join(t.TempDir(), "game.sock")
	runner := tmuxcli.New(tmuxPath, socketPath)

	cmd := append([]string{"new-session", "-d", "-x", "80", "-y", "24", "--", binary}, args...)
	if _, err := runner.Run(cmd...); err != nil {
		t.Fatalf("gameharness: failed to start session: %v", err)
	}
	t.Cleanup(func() { _, _ = runner.Run("kill-server") })

	// Keep dead panes around so exit status is observable, and drop the
	// status bar so captures hold only program output.
	for _, opt := range [][]string{
		{"set-option", "-g", "remain-on-exit", "on"},
		{"set-option", "-g", "status", "off"},
	} {
		if _, err := runner.Run(opt...); err != nil {
			t.Fatalf("gameharness: set-option: %v", err)
		}
	}

	output, err := runner.Run("list-panes", "-F", "#{pane_id}")
	if err != nil {
		t.Fatalf("gameharness: failed to get pane id: %v", err)
	}

	return &Game{t: t, runner: runner, pane: strings.TrimSpace(output)}
}

// Runner exposes the underlying tmux runner, for wiring real transports to
// the test session.
func (g *Game) Runner() *tmuxcli.Runner {
	return g.runner
}

// Pane returns the tmux pane id of the running program.
func (g *Game) Pane() string {
	return g.pane
}

// Type sends a line of input followed by Enter.
func (g *Game) Type(line string) {
	g.t.Helper()
	ctx := context.Background()
	if err := g.runner.SendLiteral(ctx, g.pane, line); err != nil {
		g.t.Fatalf("gameharness: type: %v", err)
	}
	if err := g.runner.SendKeys(ctx, g.pane, "Enter"); err != nil {
		g.t.Fatalf("gameharness: type: %v", err)
	}
}

// Press sends raw tmux key sequences.
func (g *Game) Press(keys ...string) {
	g.t.Helper()
	if err := g.runner.SendKeys(context.Background(), g.pane, keys...); err != nil {
		g.t.Fatalf("gameharness: press: %v", err)
	}
}

// Capture returns the visible pane content.
func (g *Game) Capture() *screen.Frame {
	g.t.Helper()
	raw, err := g.runner.CapturePane(context.Background(), g.pane)
	if err != nil {
		g.t.Fatalf("gameharness: capture: %v", err)
	}
	return screen.NewFrame(raw)
}

// WaitFor polls the pane until the matcher succeeds and returns the
// matching frame. On timeout, or if the program exits first, the test
// fails with the expectation and the most recent captures.
func (g *Game) WaitFor(m Matcher) *screen.Frame {
	g.t.Helper()

	deadline := time.Now().Add(defaultTimeout)
	lastDesc := "matcher condition"
	recent := make([]*screen.Frame, 0, captureHistory)

	for {
		if dead, status := g.paneDead(); dead {
			g.t.Fatalf("gameharness: program exited with status %d\n    waiting for: %s\n    recent captures:\n%s",
				status, lastDesc, renderRecent(recent))
		}

		frame := g.Capture()
		recent = append(recent, frame)
		if len(recent) > captureHistory {
			recent = recent[len(recent)-captureHistory:]
		}

		ok, desc := m(frame)
		lastDesc = desc
		if ok {
			return frame
		}
		if time.Now().After(deadline) {
			g.t.Fatalf("gameharness: timed out after %v\n    waiting for: %s\n    recent captures:\n%s",
				defaultTimeout, lastDesc, renderRecent(recent))
		}
		time.Sleep(pollEvery)
	}
}

// WaitExit waits for the program to exit and returns its exit status.
func (g *Game) WaitExit() int {
	g.t.Helper()
	deadline := time.Now().Add(defaultTimeout)
	for {
		if dead, status := g.paneDead(); dead {
			return status
		}
		if time.Now().After(deadline) {
			g.t.Fatalf("gameharness: timed out after %v waiting for exit, pane still alive", defaultTimeout)
		}
		time.Sleep(pollEvery)
	}
}

func (g *Game) paneDead() (bool, int) {
	g.t.Helper()
	output, err := g.runner.Run("list-panes", "-t", g.pane, "-F", "#{pane_dead} #{pane_dead_status}")
	if err != nil {
		return false, 0
	}
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) == 0 || fields[0] != "1" {
		return false, 0
	}
	status := 0
	if len(fields) > 1 {
		status, _ = strconv.Atoi(fields[1])
	}
	return true, status
}

func renderRecent(frames []*screen.Frame) string {
	if len(frames) == 0 {
		return "    (no captures)"
	}
	var b strings.Builder
	for i, f := range frames {
		fmt.Fprintf(&b, "    capture %d/%d:\n", i+1, len(frames))
		for _, line := range f.Lines() {
			fmt.Fprintf(&b, "    | %s\n", strings.TrimRight(line, " "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// findTmux resolves the tmux binary: HACKWATCH_TMUX first, then PATH. The
// test is skipped when tmux is missing or too old.
func findTmux(t testing.TB) string {
	t.Helper()

	path := os.Getenv("HACKWATCH_TMUX")
	explicit := path != ""
	if !explicit {
		found, err := exec.LookPath("tmux")
		if err != nil {
			t.Skip("gameharness: tmux not found in PATH")
		}
		path = found
	}

	version, err := tmuxcli.Version(path)
	if err != nil {
		if explicit {
			t.Fatalf("gameharness: %v", err)
		}
		t.Skipf("gameharness: %v", err)
	}
	if !versionAtLeast(version, minTmuxVersion) {
		msg := fmt.Sprintf("gameharness: tmux version %s is below minimum %s", version, minTmuxVersion)
		if explicit {
			t.Fatal(msg)
		}
		t.Skip(msg)
	}
	return path
}

// versionAtLeast handles version strings like "3.4", "next-3.5", "3.3a".
var versionRe = regexp.MustCompile(`(\d+)\.(\d+)`)

func versionAtLeast(version, minVersion string) bool {
	parse := func(v string) (int, int, bool) {
		m := versionRe.FindStringSubmatch(v)
		if m == nil {
			return 0, 0, false
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		return major, minor, true
	}
	vMajor, vMinor, ok1 := parse(version)
	mMajor, mMinor, ok2 := parse(minVersion)
	if !ok1 || !ok2 {
		return false
	}
	if vMajor != mMajor {
		return vMajor > mMajor
	}
	return vMinor >= mMinor
}
