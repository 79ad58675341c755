package engine

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cboone/hackwatch/internal/engrave"
	"github.com/cboone/hackwatch/internal/knowledge"
	"github.com/cboone/hackwatch/internal/nethack"
	"github.com/cboone/hackwatch/internal/priceid"
	"github.com/cboone/hackwatch/internal/screen"
)

// writeGlyph supplies the glyph after the player starts a dust
// finger-engraving: confirm the prompt, type the word, confirm again, then
// read the square so the next frame reflects the result.
func (e *Engine) writeGlyph(ctx context.Context, frame *screen.Frame) {
	e.log.Info("finger-engraving detected, writing the glyph automatically")
	e.sendKeys(ctx, "C-m")
	frame = e.awaitChange(ctx, frame)
	e.typeText(ctx, engrave.Word)
	frame = e.awaitChange(ctx, frame)
	e.sendKeys(ctx, "C-m")
	e.awaitChange(ctx, frame)
	e.sendKeys(ctx, ":")
	e.eword.ObserveEngraved()
	e.store.SetEngraveState(e.eword.State())
}

// restTurn services the Ctrl+E rest request: read the square, update the
// engraving state from what is actually there, then either rest on the
// intact glyph or re-engrave it first. Hostile adjacency is only knowable
// from the game's own prompt, so the rest attempt watches for it.
func (e *Engine) restTurn(ctx context.Context, frame *screen.Frame) {
	e.sendKeys(ctx, ":")
	for ctx.Err() == nil {
		next := e.awaitChange(ctx, frame)
		stalled := next == frame
		frame = next
		ev, ok := e.readSquare(frame)
		if !ok {
			if stalled {
				e.log.Info("pane stalled, unable to perform the rest turn")
				return
			}
			if e.extract.MorePending(frame) {
				// Other messages obscure the read, skip past them.
				frame = e.skipMore(ctx, frame, false)
				continue
			}
			e.log.Info("unrecognized messages, unable to perform the rest turn")
			return
		}
		switch ev := ev.(type) {
		case nethack.EngraveReadEvent:
			e.eword.ObserveRead(ev.Text)
		case nethack.NoObjectsEvent:
			e.eword.ObserveErased()
		}
		e.store.SetEngraveState(e.eword.State())
		break
	}

	switch e.eword.RequestRestTurn() {
	case engrave.Rest:
		frame = e.skipMore(ctx, frame, true)
		e.sendKeys(ctx, ".")
		frame = e.awaitChange(ctx, frame)
		if frame.Contains("Are you waiting to get hit?") {
			e.log.Info("cannot safely rest, an enemy is near")
			return
		}
		e.log.Info("glyph intact, resting one turn")
		e.sendKeys(ctx, ":")
		frame = e.awaitChange(ctx, frame)
		e.skipMore(ctx, frame, false)
	case engrave.Reengrave:
		e.log.Info("glyph missing or corrupt, re-engraving")
		e.reengrave(ctx, frame)
	}
}

// reengrave writes the glyph in the dust, wiping whatever is on the square
// first when the game asks.
func (e *Engine) reengrave(ctx context.Context, frame *screen.Frame) {
	e.sendKeys(ctx, "E")
	frame = e.awaitChange(ctx, frame)
	e.sendKeys(ctx, "-")
	frame = e.awaitChange(ctx, frame)
	if frame.Contains("Do you want to add to the current engraving?") {
		e.sendKeys(ctx, "n")
		frame = e.awaitChange(ctx, frame)
	}
	frame = e.skipMore(ctx, frame, true)
	e.typeText(ctx, engrave.Word)
	e.awaitChange(ctx, frame)
	e.sendKeys(ctx, "C-m", ":")
	e.eword.ObserveEngraved()
	e.store.SetEngraveState(e.eword.State())
}

// readSquare extracts the result of a ":" look from the frame.
func (e *Engine) readSquare(frame *screen.Frame) (nethack.Event, bool) {
	for _, line := range frame.Lines() {
		if ev, ok := e.extract.MatchLine(line); ok {
			switch ev.(type) {
			case nethack.EngraveReadEvent, nethack.NoObjectsEvent:
				return ev, true
			}
		}
	}
	return nil, false
}

// skipMore dismisses a --More-- prompt, and with skipAll every sequential
// one after it. Returns the frame left on screen.
func (e *Engine) skipMore(ctx context.Context, frame *screen.Frame, skipAll bool) *screen.Frame {
	for e.extract.MorePending(frame) && ctx.Err() == nil {
		e.sendKeys(ctx, "C-m")
		if !skipAll {
			break
		}
		next := e.awaitChange(ctx, frame)
		if next == frame {
			// Pane stalled, stop hammering the prompt.
			break
		}
		frame = next
	}
	return frame
}

// handleExtCmd interprets the pseudo-commands typed at the extended
// command prompt. Real extended commands are left for the game.
func (e *Engine) handleExtCmd(ctx context.Context, cmd string) bool {
	switch cmd {
	case "sucker":
		e.setSucker(ctx, true)
	case "!sucker":
		e.setSucker(ctx, false)
	case "reset":
		e.reset()
	default:
		return false
	}
	e.sendKeys(ctx, "Escape", "Escape")
	return true
}

// identifyPurchase price-identifies an item quoted by a shopkeeper. Buying
// quotes carry the charisma markup; selling offers do not.
func (e *Engine) identifyPurchase(ctx context.Context, item string, price int, buying bool) bool {
	if buying {
		e.log.Info("item offered for sale", zap.String("item", item), zap.Int("price", price))
	} else {
		e.log.Info("gold offered for item", zap.String("item", item), zap.Int("price", price))
	}
	// Some descriptions always belong to one identity; no inference needed.
	if identity, ok := priceid.FixedAppearance(item); ok {
		if entry := e.store.Item(item); entry != nil && entry.Resolved != "" {
			return false
		}
		e.store.KnowIdentity(identity, item)
		e.store.PutItem(item, &knowledge.ItemEntry{
			Alias:      identity,
			Candidates: []string{identity},
			Resolved:   identity,
		})
		e.log.Info("fixed appearance recognized", zap.String("item", item), zap.String("identity", identity))
		e.notify(ctx, fmt.Sprintf("Item uniquely identified: %s! Now call it.", identity))
		return true
	}

	kind, appearance, ok := priceid.Lookup(item)
	if !ok {
		return false
	}
	e.log.Info("appearance recognized", zap.String("kind", kind), zap.String("appearance", appearance))

	session := e.store.Session()
	sucker := priceid.SuckerNo
	if session.Sucker {
		sucker = priceid.SuckerYes
	}
	observed := priceid.Candidates(price, kind, session.Charisma, sucker, buying)

	// A resolved identity never gets revised; a price it cannot explain
	// is reported and dropped.
	if entry := e.store.Item(item); entry != nil && entry.Resolved != "" {
		if !slices.Contains(observed, entry.Resolved) {
			e.log.Warn("price contradicts the resolved identity",
				zap.String("item", item), zap.String("identity", entry.Resolved), zap.Int("price", price))
			e.notify(ctx, fmt.Sprintf("Price contradicts known identity of %s", item))
			return true
		}
		return false
	}

	observed = e.dropKnown(observed)
	if len(observed) == 0 {
		e.log.Info("no identities matched the price")
		return false
	}
	e.learnPriceID(ctx, item, appearance, observed)
	return true
}

// dropKnown removes identities already pinned to another appearance.
func (e *Engine) dropKnown(candidates []string) []string {
	kept := candidates[:0]
	for _, c := range candidates {
		if !e.store.IsKnown(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

// learnPriceID folds a price observation into the item's candidate set.
// The set only ever narrows; an observation that contradicts it is
// reported and discarded, since it most likely reflects a markup the
// model does not cover.
func (e *Engine) learnPriceID(ctx context.Context, item, appearance string, observed []string) {
	var prior []string
	entry := e.store.Item(item)
	if entry != nil {
		prior = entry.Candidates
	}

	set, outcome := priceid.Narrow(prior, observed)
	switch outcome {
	case priceid.Contradiction:
		e.log.Warn("price contradicts the known candidates, keeping them",
			zap.String("item", item), zap.Strings("candidates", prior))
		e.notify(ctx, fmt.Sprintf("Price contradicts known candidates for %s", item))
		return
	case priceid.Unchanged:
		if entry != nil {
			return
		}
	}

	alias := priceid.Abbreviate(set, e.cfg.AbbrevLength)
	resolved := ""
	if outcome == priceid.Resolved {
		resolved = set[0]
		alias = resolved
		e.store.KnowIdentity(resolved, appearance)
		e.log.Info("item uniquely identified", zap.String("identity", resolved))
		e.notify(ctx, fmt.Sprintf("Item uniquely identified: %s! Now call it.", resolved))
	} else {
		e.log.Info("possible identities", zap.Strings("candidates", set))
		e.notify(ctx, fmt.Sprintf("Possible items: %s. Now call it.", alias))
	}

	e.store.PutItem(item, &knowledge.ItemEntry{
		Alias:      alias,
		Candidates: set,
		Resolved:   resolved,
		Called:     false,
	})
	e.log.Info("alias recorded", zap.String("item", item), zap.String("alias", alias))
}

// fillCallPrompt types the recorded alias into an open call prompt, once
// per alias revision.
func (e *Engine) fillCallPrompt(ctx context.Context, frame *screen.Frame, item string) bool {
	entry := e.store.Item(item)
	if entry == nil || entry.Called {
		return false
	}
	e.typeText(ctx, entry.Alias)
	e.sendKeys(ctx, "C-m")
	entry.Called = true
	e.store.MarkDirty()
	e.awaitChange(ctx, frame)
	e.log.Info("item called", zap.String("item", item), zap.String("alias", entry.Alias))
	return true
}

// saveAndQuit drives the save dialog. On success the game exits and the
// engine waits for a fresh session to sync against. Returns whether the
// save was confirmed; the caller retries on the next turn observation
// otherwise.
func (e *Engine) saveAndQuit(ctx context.Context) bool {
	frame, err := e.pane.Capture(ctx)
	if err != nil {
		e.log.Warn("capture failed before saving", zap.Error(err))
		return false
	}
	// A pending --More-- swallows the save command, acknowledge it first.
	frame = e.skipMore(ctx, frame, true)
	e.sendKeys(ctx, "S")
	frame = e.awaitChange(ctx, frame)
	if !frame.Contains("Really save? [yn]") {
		e.log.Warn("save prompt did not appear")
		return false
	}
	e.sendKeys(ctx, "y")
	e.store.MarkDirty()
	e.lostSync()
	return true
}
