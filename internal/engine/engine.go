// Package engine runs the observation loop: it polls the game pane, turns
// fresh terminal output into events, updates the knowledge store, and
// injects keystrokes when an interaction is called for. A single goroutine
// owns all state; concurrency stays at the edges.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cboone/hackwatch/internal/config"
	"github.com/cboone/hackwatch/internal/engrave"
	"github.com/cboone/hackwatch/internal/knowledge"
	"github.com/cboone/hackwatch/internal/nethack"
	"github.com/cboone/hackwatch/internal/priceid"
	"github.com/cboone/hackwatch/internal/screen"
	"github.com/cboone/hackwatch/internal/transport"
	"github.com/cboone/hackwatch/internal/turnlimit"
)

// Engine drives one game pane. Not safe for concurrent use.
type Engine struct {
	cfg   *config.Config
	log   *zap.Logger
	pane  transport.Pane
	store *knowledge.Store

	extract *nethack.Extractor
	differ  *screen.Differ
	eword   *engrave.Machine
	limit   *turnlimit.Controller

	synced      bool
	stopping    bool
	savePending bool
	failures    int
}

// New assembles an Engine around an open knowledge store, restoring the
// engraving and turn-limit state recorded by a previous run.
func New(cfg *config.Config, pane transport.Pane, store *knowledge.Store, log *zap.Logger) *Engine {
	e := &Engine{
		cfg:     cfg,
		log:     log,
		pane:    pane,
		store:   store,
		extract: nethack.NewExtractor(),
		differ:  screen.NewDiffer(),
		eword:   engrave.New(store.EngraveState()),
		limit:   turnlimit.New(cfg.TurnLimit, cfg.AlignedTurnLimit),
	}
	tl := store.TurnLimit()
	e.limit.Restore(tl.Target, tl.Fired)
	return e
}

// Run polls the pane until the context is canceled, the player dies, or
// captures keep failing past the configured ceiling.
func (e *Engine) Run(ctx context.Context) error {
	for !e.stopping {
		if err := e.Step(ctx); err != nil {
			return err
		}
		// Back off while captures fail so a dead pane is not hammered.
		delay := e.cfg.PollInterval * time.Duration(1+e.failures)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return e.store.Flush()
}

// Step performs one cycle of the loop: flush pending knowledge, capture,
// diff, extract, and act on at most one interaction. Capture failures are
// tolerated up to the configured ceiling; other errors are handled in
// place.
func (e *Engine) Step(ctx context.Context) error {
	if err := e.store.Flush(); err != nil {
		e.log.Warn("flushing knowledge failed", zap.Error(err))
	}

	frame, err := e.pane.Capture(ctx)
	if err != nil {
		e.failures++
		if e.failures >= e.cfg.CaptureFailureCeiling {
			return fmt.Errorf("engine: %d consecutive capture failures, giving up: %w", e.failures, err)
		}
		e.log.Debug("capture failed, skipping cycle",
			zap.Int("consecutive", e.failures), zap.Error(err))
		return nil
	}
	e.failures = 0

	events := e.collect(frame)
	e.observe(ctx, events)
	if !e.synced {
		return nil
	}
	e.act(ctx, frame, events)
	return nil
}

// collect merges line events from the differencer with positional events
// scanned off the whole frame. Handlers are idempotent, so overlap between
// the two sources is harmless.
func (e *Engine) collect(frame *screen.Frame) []nethack.Event {
	var events []nethack.Event
	for _, line := range e.differ.Advance(frame) {
		if ev, ok := e.extract.MatchLine(line); ok {
			events = append(events, ev)
		}
	}
	return append(events, e.extract.ScanFrame(frame)...)
}

// observe folds passive events into the session state. This runs whether
// or not the engine is synced: the status rows are how sync is acquired in
// the first place. The differencer may still be reporting a status row it
// withheld last cycle while the frame scan always carries the freshest one;
// the frame scan comes last in collect, so the last row of each kind wins.
func (e *Engine) observe(ctx context.Context, events []nethack.Event) {
	var status *nethack.StatusEvent
	var cont *nethack.StatusContEvent
	for _, ev := range events {
		switch ev := ev.(type) {
		case nethack.StatusEvent:
			status = &ev
		case nethack.StatusContEvent:
			cont = &ev
		}
	}
	if status != nil {
		e.observeStatus(ctx, *status)
	}
	if cont != nil {
		e.observeStatusCont(ctx, *cont)
	}
}

func (e *Engine) observeStatus(ctx context.Context, ev nethack.StatusEvent) {
	if e.store.SetCharisma(ev.Charisma) {
		e.log.Info("new charisma value learned", zap.Int("charisma", ev.Charisma))
	}
	if priceid.TouristLowRanks[ev.Rank] && e.store.SetTourist(true) {
		e.log.Info("identified as a low-level tourist", zap.String("rank", ev.Rank))
	}
	// Wizard mode is conventionally played under the fixed name "wizard".
	// Approximate, but good enough to keep the Ctrl+E trick from
	// colliding with the real wizdetect command.
	if strings.EqualFold(ev.Name, "wizard") && e.store.SetWizard(true) {
		e.log.Info("wizard mode detected, engraving shortcuts disabled")
	}
	e.checkSucker(ctx)
}

func (e *Engine) observeStatusCont(ctx context.Context, ev nethack.StatusContEvent) {
	if ev.XPLevel >= 0 {
		if e.store.SetXPLevel(ev.XPLevel) {
			e.log.Info("new experience level learned", zap.Int("xplevel", ev.XPLevel))
			e.checkSucker(ctx)
		}
	}
	e.observeTurn(ctx, ev.Turn)
}

func (e *Engine) observeTurn(ctx context.Context, turn int) {
	if !e.synced {
		e.synced = true
		e.log.Info("acquired sync with the game", zap.Int("turn", turn))
	}
	if e.limit.Observe(turn) {
		e.log.Info("turn limit reached", zap.Int("turn", turn), zap.Int("target", e.limit.Target()))
		e.notify(ctx, "Turn limit reached, saving game...")
		e.savePending = true
	}

	// The fired flag is only durable once the save dialog was actually
	// confirmed; a crash or a refused prompt must retry, not swallow the
	// save.
	confirmed := e.limit.Fired() && !e.savePending
	if tl := e.store.TurnLimit(); e.limit.Target() != tl.Target || confirmed != tl.Fired {
		e.store.SetTurnLimit(knowledge.TurnLimitState{Target: e.limit.Target(), Fired: confirmed})
	}

	if e.savePending && e.saveAndQuit(ctx) {
		e.savePending = false
		e.store.SetTurnLimit(knowledge.TurnLimitState{Target: e.limit.Target(), Fired: true})
	}
}

// checkSucker applies the one automatic sucker condition: a tourist below
// experience level 15. Dunce caps and visible shirts stay manual, via the
// "# sucker" pseudo-command.
func (e *Engine) checkSucker(ctx context.Context) {
	if e.store.Session().Tourist {
		e.setSucker(ctx, e.store.Session().XPLevel < 15)
	}
}

func (e *Engine) setSucker(ctx context.Context, sucker bool) {
	if !e.store.SetSucker(sucker) {
		return
	}
	if sucker {
		e.log.Info("identified as a sucker")
		e.notify(ctx, "You are now sucker")
	} else {
		e.log.Info("no longer identified as a sucker")
		e.notify(ctx, "You are no longer sucker")
	}
}

// act handles at most one interaction per cycle, in priority order. Each
// interactive sequence ends with a pane change, so the next cycle sees a
// fresh frame.
func (e *Engine) act(ctx context.Context, frame *screen.Frame, events []nethack.Event) {
	wizard := e.store.Session().Wizard
	for _, ev := range events {
		if _, ok := ev.(nethack.DeathEvent); ok {
			e.log.Info("player died, ending session")
			e.lostSync()
			e.store.Unlink()
			e.stopping = true
			return
		}
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case nethack.EngraveDustEvent:
			if e.cfg.AutoElbereth && !wizard {
				e.writeGlyph(ctx, frame)
				return
			}
		case nethack.RestRequestEvent:
			if !wizard {
				e.restTurn(ctx, frame)
				return
			}
		case nethack.ExtCmdEvent:
			if e.handleExtCmd(ctx, ev.Cmd) {
				return
			}
		case nethack.SaleEvent:
			if e.identifyPurchase(ctx, ev.Item, ev.Price, true) {
				e.awaitChange(ctx, frame)
				return
			}
		case nethack.OfferEvent:
			if e.identifyPurchase(ctx, ev.Item, ev.Price, false) {
				e.awaitChange(ctx, frame)
				return
			}
		case nethack.CallPromptEvent:
			if e.fillCallPrompt(ctx, frame, ev.Item) {
				return
			}
		}
	}
}

func (e *Engine) lostSync() {
	e.synced = false
	e.differ = screen.NewDiffer()
	e.log.Info("lost sync with the game")
}

// reset wipes everything learned and starts the session over, as if the
// tool had just been launched against the pane.
func (e *Engine) reset() {
	e.store.Reset()
	e.eword = engrave.New(engrave.Absent)
	e.limit = turnlimit.New(e.cfg.TurnLimit, e.cfg.AlignedTurnLimit)
	e.differ = screen.NewDiffer()
	e.synced = false
	e.savePending = false
	e.log.Info("state reset")
}

func (e *Engine) notify(ctx context.Context, msg string) {
	if err := e.pane.Notify(ctx, msg); err != nil {
		e.log.Debug("notify failed", zap.Error(err))
	}
}

func (e *Engine) sendKeys(ctx context.Context, keys ...string) {
	if err := e.pane.SendKeys(ctx, keys...); err != nil {
		e.log.Warn("sending keys failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (e *Engine) typeText(ctx context.Context, s string) {
	if err := e.pane.Type(ctx, s); err != nil {
		e.log.Warn("typing failed", zap.Error(err))
	}
}

// awaitChange blocks until the pane content moves on from prev. On timeout
// the previous frame is returned so callers always hold a usable frame.
func (e *Engine) awaitChange(ctx context.Context, prev *screen.Frame) *screen.Frame {
	frame, err := e.pane.WaitChange(ctx, prev)
	if err != nil {
		e.log.Debug("pane did not change", zap.Error(err))
		return prev
	}
	return frame
}
