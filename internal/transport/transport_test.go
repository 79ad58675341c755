package transport_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cboone/hackwatch/internal/tmuxcli"
	"github.com/cboone/hackwatch/internal/transport"
)

func findTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("tmux not found in PATH")
	}
	return path
}

func startSession(t *testing.T) *tmuxcli.Runner {
	t.Helper()
	tmuxPath := findTmux(t)

	// A private socket keeps the test off the user's real server.
	runner := tmuxcli.New(tmuxPath, t.TempDir()+"/test.sock")
	_, err := runner.Run("new-session", "-d", "-s", "hw", "-x", "80", "-y", "24", "-E", "--", "/bin/sh")
	require.NoError(t, err, "failed to start session")
	t.Cleanup(func() { _, _ = runner.Run("kill-server") })
	return runner
}

func TestTerminalCaptureAndType(t *testing.T) {
	runner := startSession(t)
	term := transport.New(runner, "hw", transport.WithWaitTimeout(10*time.Second))
	ctx := context.Background()

	require.Equal(t, "hw", term.Pane())

	frame, err := term.Capture(ctx)
	require.NoError(t, err)

	require.NoError(t, term.Type(ctx, "echo nethack-rules"))
	require.NoError(t, term.SendKeys(ctx, "Enter"))

	changed, err := term.WaitChange(ctx, frame)
	require.NoError(t, err)
	require.True(t, changed.Contains("nethack-rules"))
}

func TestTerminalRejectsEmptyKeys(t *testing.T) {
	runner := tmuxcli.New("tmux", "")
	term := transport.New(runner, "hw")
	require.Error(t, term.SendKeys(context.Background()))
}

func TestTerminalWaitChangeTimesOut(t *testing.T) {
	runner := startSession(t)
	term := transport.New(runner, "hw",
		transport.WithWaitTimeout(300*time.Millisecond),
		transport.WithPollInterval(50*time.Millisecond))
	ctx := context.Background()

	frame, err := term.Capture(ctx)
	require.NoError(t, err)

	// Nothing is typed, so the pane never changes.
	_, err = term.WaitChange(ctx, frame)
	require.Error(t, err)
}
