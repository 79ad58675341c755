// Package config holds the resolved runtime configuration. Flag parsing
// lives in the command; the engine only ever sees a validated Config.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults mirroring the original tool's behavior.
const (
	DefaultAbbrevLength    = 60
	DefaultPollInterval    = 120 * time.Millisecond
	DefaultMessageDuration = 2 * time.Second
	DefaultCaptureFailures = 50
)

// Config is the resolved configuration consumed by the engine.
type Config struct {
	// Pane is the tmux target (session, session:window, or
	// session:window.pane) running the game.
	Pane string

	// TmuxPath is the tmux binary; resolved from PATH when empty.
	TmuxPath string

	// Persistence is the knowledge file path; empty disables persistence.
	Persistence string

	// LogFile duplicates the log stream into a file when non-empty.
	LogFile string

	// TurnLimit is how many turns to play before the save-and-quit trigger
	// fires; zero disables it.
	TurnLimit int

	// AlignedTurnLimit rounds the target turn up to the next multiple of
	// TurnLimit instead of adding it to the start turn.
	AlignedTurnLimit bool

	// AutoElbereth automatically supplies the glyph when the player starts
	// a dust finger-engraving.
	AutoElbereth bool

	// AbbrevLength caps the length of call-prompt aliases.
	AbbrevLength int

	// PollInterval is the pane capture cadence.
	PollInterval time.Duration

	// MessageDuration is how long tmux status notifications stay visible.
	MessageDuration time.Duration

	// CaptureFailureCeiling is how many consecutive capture failures are
	// tolerated before giving up on the pane.
	CaptureFailureCeiling int

	// Verbose enables debug logging.
	Verbose bool
}

// Validate checks the configuration, returning a descriptive error for the
// first problem found. Configuration problems are startup-fatal; they can
// never occur mid-session.
func (c *Config) Validate() error {
	if c.Pane == "" {
		return errors.New("target pane is required")
	}
	if c.AbbrevLength < 1 {
		return fmt.Errorf("abbreviation length must be a positive number, got %d", c.AbbrevLength)
	}
	if c.TurnLimit < 0 {
		return fmt.Errorf("turn limit must be a non-negative number, got %d", c.TurnLimit)
	}
	if c.AlignedTurnLimit && c.TurnLimit == 0 {
		return errors.New("aligned turn limit is only valid when a turn limit is set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.CaptureFailureCeiling < 1 {
		return fmt.Errorf("capture failure ceiling must be positive, got %d", c.CaptureFailureCeiling)
	}
	return nil
}
