// Package tmuxcli provides low-level tmux command execution against a pane
// on the user's running tmux server. It is internal to hackwatch.
package tmuxcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Runner executes tmux commands, optionally against a dedicated server socket.
// With an empty socket path it talks to the user's default server, which is
// the normal mode of operation: hackwatch attaches to a pane the player is
// already using.
type Runner struct {
	tmuxPath   string
	socketPath string
}

// New creates a Runner bound to the given tmux binary. socketPath may be
// empty to use the default tmux server.
func New(tmuxPath, socketPath string) *Runner {
	return &Runner{
		tmuxPath:   tmuxPath,
		socketPath: socketPath,
	}
}

// Run executes a tmux command with the given arguments and returns its
// stdout output. If the command fails, it returns an error containing stderr.
func (r *Runner) Run(args ...string) (string, error) {
	return r.RunContext(context.Background(), args...)
}

// RunContext executes a tmux command with the given context and arguments.
func (r *Runner) RunContext(ctx context.Context, args ...string) (string, error) {
	var fullArgs []string
	if r.socketPath != "" {
		fullArgs = append(fullArgs, "-S", r.socketPath)
	}
	fullArgs = append(fullArgs, args...)
	cmd := exec.CommandContext(ctx, r.tmuxPath, fullArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Op:     args[0],
			Args:   fullArgs,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return stdout.String(), nil
}

// SocketPath returns the socket path used by this runner, if any.
func (r *Runner) SocketPath() string {
	return r.socketPath
}

// TmuxPath returns the path to the tmux binary.
func (r *Runner) TmuxPath() string {
	return r.tmuxPath
}

// Error represents a tmux command failure.
type Error struct {
	Op     string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("tmux %s failed: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Version runs "tmux -V" and returns the version string (e.g. "3.4").
func Version(tmuxPath string) (string, error) {
	cmd := exec.Command(tmuxPath, "-V")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux -V failed: %v (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	// Output is like "tmux 3.4" or "tmux next-3.5"
	output := strings.TrimSpace(stdout.String())
	version := strings.TrimPrefix(output, "tmux ")
	return version, nil
}

// CapturePane captures the visible content of the target pane.
func (r *Runner) CapturePane(ctx context.Context, pane string) (string, error) {
	return r.RunContext(ctx, "capture-pane", "-p", "-t", pane)
}

// SendKeys sends key sequences to the target pane.
func (r *Runner) SendKeys(ctx context.Context, pane string, keys ...string) error {
	args := append([]string{"send-keys", "-t", pane}, keys...)
	_, err := r.RunContext(ctx, args...)
	return err
}

// SendLiteral sends a string as literal keypresses (send-keys -l), so that
// item aliases like "Conf/ExtrHeal" are typed verbatim rather than
// interpreted as key names.
func (r *Runner) SendLiteral(ctx context.Context, pane, s string) error {
	_, err := r.RunContext(ctx, "send-keys", "-t", pane, "-l", s)
	return err
}

// DisplayMessage shows a message in the status area of the session owning
// the target pane for the given duration. A zero duration is a no-op.
func (r *Runner) DisplayMessage(ctx context.Context, pane, text string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	session, _, _ := strings.Cut(pane, ":")
	_, err := r.RunContext(ctx, "display-message", "-t", session,
		"-d", strconv.Itoa(int(d.Milliseconds())), text)
	return err
}

// HasPane reports whether the target pane exists on the server.
func (r *Runner) HasPane(ctx context.Context, pane string) bool {
	_, err := r.RunContext(ctx, "display-message", "-p", "-t", pane, "#{pane_id}")
	return err == nil
}
