package nethack

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cboone/hackwatch/internal/screen"
)

var (
	// "You see here a ruby potion (for sale, 100 zorkmids)." and the
	// things-that-are-here listing form. Stacks carry a quantity.
	saleRe = regexp.MustCompile(
		`(?:You see here |Things that are here: )?(a|an|(?P<quantity>\d+)) ` +
			`(?P<item>[\w -]+) \(for sale, (?P<price>\d+) zorkmids\)`)

	// Shopkeeper quote when picking an item up.
	pickupSaleRe = regexp.MustCompile(
		`"For you, [\w ]+; only (?P<price>\d+) zorkmids for this (?P<item>.+)\."`)

	// Shopkeeper offer when the player drops an item for sale.
	offerRe = regexp.MustCompile(
		`[\w '=-]+ offers (?P<price>\d+) gold pieces ` +
			`for your (?P<item>[\w -]+)\.(?:  Sell it\?)?`)

	// First status row: "[Name the Rank ] St:18/02 Dx:14 ... Ch:11 Neutral".
	statusRe = regexp.MustCompile(
		`\[(?P<name>[\w _-]+?)\s+the\s+(?P<rank>[\w _-]+?)\s+\]\s+` +
			`St:(?P<strength>\d+(/\d+)?)\s+Dx:(?P<dexterity>\d+)\s+` +
			`Co:(?P<constitution>\d+)\s+In:(?P<intelligence>\d+)\s+` +
			`Wi:(?P<wisdom>\d+)\s+Ch:(?P<charisma>\d+)\s+(?P<alignment>\w+)`)

	// Second status row with the turn counter. "HD:" appears instead of
	// "Xp:" while polymorphed.
	statusContRe = regexp.MustCompile(
		`(?:Dlvl:)?((?P<dlvl>\d+)|(?P<plane>[\w ]+))\s+\$:(?P<money>\d+)\s+` +
			`HP:(?P<hp>\d+)\((?P<maxhp>\d+)\)\s+Pw:(?P<pw>\d+)\((?P<maxpw>\d+)\)\s+` +
			`AC:(?P<ac>-?\d+)\s+(?:Xp:|HD:)((?P<xplevel>\d+)/(?P<xp>\d+)|(?P<hd>\d+))\s+` +
			`T:(?P<turn>\d+)`)

	// An open call prompt with nothing typed yet.
	callPromptRe = regexp.MustCompile(`^Call (?:a|an) (?P<item>[\w -]+): *$`)

	engraveReadRe = regexp.MustCompile(`You read: "(?P<text>[^"]*)"\.`)
)

// Extractor applies an ordered list of recognizers to terminal output.
// The zero value is not usable; call NewExtractor.
type Extractor struct {
	line []recognizer
}

type recognizer struct {
	name  string
	match func(line string) (Event, bool)
}

// NewExtractor builds an Extractor with the standard recognizer set.
func NewExtractor() *Extractor {
	return &Extractor{
		line: []recognizer{
			{"engrave-dust", matchFixed("You write in the dust with your fingertip.--More--", EngraveDustEvent{})},
			{"rest-request", matchFixed("Unavailable command 'wizdetect'.", RestRequestEvent{})},
			{"engrave-read", matchEngraveRead},
			{"no-objects", matchFixed("You see no objects here.", NoObjectsEvent{})},
			{"add-engrave-prompt", matchFixed("Do you want to add to the current engraving?", AddEngravePromptEvent{})},
			{"hostile-prompt", matchFixed("Are you waiting to get hit?", HostilePromptEvent{})},
			{"save-prompt", matchFixed("Really save? [yn]", SavePromptEvent{})},
			{"death", matchFixed("Do you want your possessions identified?", DeathEvent{})},
			{"offer", matchOffer},
			{"sale", matchSale},
			{"pickup-sale", matchPickupSale},
			{"status", matchStatus},
			{"status-cont", matchStatusCont},
			{"more", matchMore},
		},
	}
}

// MorePending reports a pending --More-- acknowledgment anywhere on the
// frame. Recognizer priority does not apply here: the prompt rides on the
// tail of other messages, which MatchLine reports as their own events.
func (e *Extractor) MorePending(f *screen.Frame) bool {
	for _, line := range f.Lines() {
		if _, ok := matchMore(line); ok {
			return true
		}
	}
	return false
}

// MatchLine applies the recognizers in order and returns the first event
// produced, if any. Unrecognized lines produce no event.
func (e *Extractor) MatchLine(line string) (Event, bool) {
	for _, r := range e.line {
		if ev, ok := r.match(line); ok {
			return ev, true
		}
	}
	return nil, false
}

// ScanFrame extracts positional and possibly row-wrapped events from a whole
// frame: the extended-command echo and the call prompt (top row), the two
// status rows, and the sale messages, which NetHack wraps across rows. Line
// events from the differencer and frame events may overlap; consumers are
// idempotent.
func (e *Extractor) ScanFrame(f *screen.Frame) []Event {
	var out []Event

	if len(f.Lines()) > 0 {
		top := f.Line(0)
		if cmd, found := strings.CutPrefix(top, "# "); found {
			out = append(out, ExtCmdEvent{Cmd: strings.TrimSpace(cmd)})
		}
		if m := callPromptRe.FindStringSubmatch(strings.TrimRight(top, " ")); m != nil {
			out = append(out, CallPromptEvent{Item: m[callPromptRe.SubexpIndex("item")]})
		}
	}

	collapsed := f.Collapsed()
	if ev, ok := matchStatus(collapsed); ok {
		out = append(out, ev)
	}
	if ev, ok := matchStatusCont(collapsed); ok {
		out = append(out, ev)
	}
	if ev, ok := matchSale(collapsed); ok {
		out = append(out, ev)
	}
	if ev, ok := matchPickupSale(collapsed); ok {
		out = append(out, ev)
	}
	if ev, ok := matchOffer(collapsed); ok {
		out = append(out, ev)
	}
	return out
}

var matchMore = matchFixed("--More--", MoreEvent{})

func matchFixed(substr string, ev Event) func(string) (Event, bool) {
	return func(line string) (Event, bool) {
		if strings.Contains(line, substr) {
			return ev, true
		}
		return nil, false
	}
}

func matchEngraveRead(line string) (Event, bool) {
	m := engraveReadRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return EngraveReadEvent{Text: m[engraveReadRe.SubexpIndex("text")]}, true
}

func matchSale(line string) (Event, bool) {
	m := saleRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	price, ok := positiveInt(m[saleRe.SubexpIndex("price")])
	if !ok {
		return nil, false
	}
	quantity := 1
	if q := m[saleRe.SubexpIndex("quantity")]; q != "" {
		quantity, ok = positiveInt(q)
		if !ok {
			return nil, false
		}
	}
	if price/quantity < 1 {
		return nil, false
	}
	item := singularize(m[saleRe.SubexpIndex("item")])
	return SaleEvent{Item: item, Price: price / quantity}, true
}

func matchPickupSale(line string) (Event, bool) {
	m := pickupSaleRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	price, ok := positiveInt(m[pickupSaleRe.SubexpIndex("price")])
	if !ok {
		return nil, false
	}
	return SaleEvent{Item: m[pickupSaleRe.SubexpIndex("item")], Price: price}, true
}

func matchOffer(line string) (Event, bool) {
	m := offerRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	price, ok := positiveInt(m[offerRe.SubexpIndex("price")])
	if !ok {
		return nil, false
	}
	return OfferEvent{Item: m[offerRe.SubexpIndex("item")], Price: price}, true
}

func matchStatus(line string) (Event, bool) {
	m := statusRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	cha, err := strconv.Atoi(m[statusRe.SubexpIndex("charisma")])
	if err != nil || cha < 3 || cha > 25 {
		return nil, false
	}
	return StatusEvent{
		Name:      m[statusRe.SubexpIndex("name")],
		Rank:      m[statusRe.SubexpIndex("rank")],
		Charisma:  cha,
		Alignment: m[statusRe.SubexpIndex("alignment")],
	}, true
}

func matchStatusCont(line string) (Event, bool) {
	m := statusContRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	turn, ok := positiveInt(m[statusContRe.SubexpIndex("turn")])
	if !ok {
		return nil, false
	}
	ev := StatusContEvent{
		Plane:   m[statusContRe.SubexpIndex("plane")],
		Turn:    turn,
		XPLevel: -1,
	}
	ev.Dlvl, _ = strconv.Atoi(m[statusContRe.SubexpIndex("dlvl")])
	ev.Gold, _ = strconv.Atoi(m[statusContRe.SubexpIndex("money")])
	ev.HP, _ = strconv.Atoi(m[statusContRe.SubexpIndex("hp")])
	ev.MaxHP, _ = strconv.Atoi(m[statusContRe.SubexpIndex("maxhp")])
	ev.AC, _ = strconv.Atoi(m[statusContRe.SubexpIndex("ac")])
	if x := m[statusContRe.SubexpIndex("xplevel")]; x != "" {
		ev.XPLevel, _ = strconv.Atoi(x)
	}
	return ev, true
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// singularize folds stack wording back to the singular item name so that
// appearance lookup works ("3 cyan potions" quotes the plural).
func singularize(item string) string {
	item = strings.Replace(item, "potions", "potion", 1)
	item = strings.Replace(item, "scrolls", "scroll", 1)
	return item
}
