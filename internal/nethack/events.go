// Package nethack turns lines of NetHack tty output into typed game events.
//
// Recognition is deliberately bounded-effort substring and regexp matching:
// text that is ambiguous, garbled, or adversarial produces no event rather
// than a guess. Consumers must tolerate duplicate delivery of the same
// event.
package nethack

// Event is a typed game observation extracted from terminal output.
type Event interface {
	event()
}

// SaleEvent reports an item lying in a shop with a price tag, from either
// the look-here message or the shopkeeper's pickup quote. Price is the unit
// price: quoted totals for stacks are divided by quantity.
type SaleEvent struct {
	Item  string
	Price int
}

// OfferEvent reports a shopkeeper offering gold for an item the player is
// selling.
type OfferEvent struct {
	Item  string
	Price int
}

// StatusEvent carries the attribute row of the status area.
type StatusEvent struct {
	Name      string
	Rank      string
	Charisma  int
	Alignment string
}

// StatusContEvent carries the second status row: location, gold, HP, power,
// AC, experience and turn counter. XPLevel is -1 when the row shows hit
// dice (polymorphed) instead of an experience level.
type StatusContEvent struct {
	Dlvl    int
	Plane   string
	Gold    int
	HP      int
	MaxHP   int
	AC      int
	XPLevel int
	Turn    int
}

// CallPromptEvent reports an open, still-empty "Call a/an <item>:" prompt.
type CallPromptEvent struct {
	Item string
}

// ExtCmdEvent reports the text echoed on an extended-command prompt line.
type ExtCmdEvent struct {
	Cmd string
}

// EngraveDustEvent reports the message shown when the player starts writing
// in the dust with a fingertip.
type EngraveDustEvent struct{}

// RestRequestEvent reports the player's Ctrl+E rest request. Outside wizard
// mode that key yields the "Unavailable command 'wizdetect'." complaint,
// which is what is actually recognized; in wizard mode the key is taken by
// the real wizdetect command, so the shortcut is unusable there.
type RestRequestEvent struct{}

// EngraveReadEvent reports reading an engraving on the current square.
type EngraveReadEvent struct {
	Text string
}

// NoObjectsEvent reports "You see no objects here.", meaning the square has
// no engraving (or anything else) to read.
type NoObjectsEvent struct{}

// AddEngravePromptEvent reports the "add to the current engraving?" prompt.
type AddEngravePromptEvent struct{}

// HostilePromptEvent reports "Are you waiting to get hit?", which the game
// asks when resting next to a hostile creature.
type HostilePromptEvent struct{}

// SavePromptEvent reports the "Really save?" confirmation prompt.
type SavePromptEvent struct{}

// DeathEvent reports the post-death possessions prompt (DYWYPI).
type DeathEvent struct{}

// MoreEvent reports a pending --More-- acknowledgment.
type MoreEvent struct{}

func (SaleEvent) event()             {}
func (OfferEvent) event()            {}
func (StatusEvent) event()           {}
func (StatusContEvent) event()       {}
func (CallPromptEvent) event()       {}
func (ExtCmdEvent) event()           {}
func (EngraveDustEvent) event()      {}
func (RestRequestEvent) event()      {}
func (EngraveReadEvent) event()      {}
func (NoObjectsEvent) event()        {}
func (AddEngravePromptEvent) event() {}
func (HostilePromptEvent) event()    {}
func (SavePromptEvent) event()       {}
func (DeathEvent) event()            {}
func (MoreEvent) event()             {}
