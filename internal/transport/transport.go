// Package transport is the terminal collaborator: pane capture, keystroke
// injection and status-bar notification over a running tmux server.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/cboone/hackwatch/internal/screen"
	"github.com/cboone/hackwatch/internal/tmuxcli"
)

// Pane is the engine's view of the transport, narrow enough to fake in
// tests.
type Pane interface {
	// Capture returns a snapshot of the pane content.
	Capture(ctx context.Context) (*screen.Frame, error)
	// SendKeys injects tmux key sequences (e.g. "C-m", "Escape").
	SendKeys(ctx context.Context, keys ...string) error
	// Type injects a string as literal keypresses.
	Type(ctx context.Context, s string) error
	// Notify shows a transient message in the status area.
	Notify(ctx context.Context, msg string) error
	// WaitChange polls until the pane content differs from prev and
	// returns the changed frame. It fails when the wait timeout expires.
	WaitChange(ctx context.Context, prev *screen.Frame) (*screen.Frame, error)
}

// Terminal implements Pane over a tmux pane.
type Terminal struct {
	runner *tmuxcli.Runner
	pane   string
	opts   options
}

// New creates a Terminal for the target pane.
func New(runner *tmuxcli.Runner, pane string, userOpts ...Option) *Terminal {
	opts := defaultOptions()
	for _, o := range userOpts {
		o(&opts)
	}
	return &Terminal{runner: runner, pane: pane, opts: opts}
}

// Pane returns the tmux target this terminal is bound to.
func (t *Terminal) Pane() string {
	return t.pane
}

// Capture returns a snapshot of the pane content, bounded by the capture
// timeout.
func (t *Terminal) Capture(ctx context.Context) (*screen.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, t.opts.captureTimeout)
	defer cancel()
	raw, err := t.runner.CapturePane(ctx, t.pane)
	if err != nil {
		return nil, err
	}
	return screen.NewFrame(raw), nil
}

// SendKeys injects tmux key sequences into the pane.
func (t *Terminal) SendKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("transport: refusing to send empty keys to pane %s", t.pane)
	}
	return t.runner.SendKeys(ctx, t.pane, keys...)
}

// Type injects a string as literal keypresses.
func (t *Terminal) Type(ctx context.Context, s string) error {
	return t.runner.SendLiteral(ctx, t.pane, s)
}

// Notify shows a transient message in the tmux status area of the pane's
// session.
func (t *Terminal) Notify(ctx context.Context, msg string) error {
	return t.runner.DisplayMessage(ctx, t.pane, msg, t.opts.messageDuration)
}

// WaitChange polls the pane until its content differs from prev, returning
// the changed frame. The wait is bounded by the wait timeout: the game may
// legitimately produce no output (nothing happened), and the engine must
// not stall forever on it.
func (t *Terminal) WaitChange(ctx context.Context, prev *screen.Frame) (*screen.Frame, error) {
	deadline := time.Now().Add(t.opts.waitTimeout)
	for {
		frame, err := t.Capture(ctx)
		if err == nil && !frame.Equal(prev) {
			return frame, nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return nil, fmt.Errorf("transport: pane did not change within %v: %w", t.opts.waitTimeout, err)
			}
			return nil, fmt.Errorf("transport: pane did not change within %v", t.opts.waitTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.opts.pollInterval):
		}
	}
}
