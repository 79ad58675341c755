package nethack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/hackwatch/internal/screen"
)

func TestMatchLineSale(t *testing.T) {
	e := NewExtractor()

	t.Run("single item", func(t *testing.T) {
		ev, ok := e.MatchLine("You see here a ruby potion (for sale, 100 zorkmids).")
		require.True(t, ok)
		assert.Equal(t, SaleEvent{Item: "ruby potion", Price: 100}, ev)
	})

	t.Run("stack divides price by quantity", func(t *testing.T) {
		ev, ok := e.MatchLine("You see here 3 cyan potions (for sale, 300 zorkmids).")
		require.True(t, ok)
		assert.Equal(t, SaleEvent{Item: "cyan potion", Price: 100}, ev)
	})

	t.Run("plural scroll folded to singular", func(t *testing.T) {
		ev, ok := e.MatchLine("You see here 2 scrolls labeled NR 9 (for sale, 400 zorkmids).")
		require.True(t, ok)
		assert.Equal(t, SaleEvent{Item: "scroll labeled NR 9", Price: 200}, ev)
	})

	t.Run("shopkeeper pickup quote", func(t *testing.T) {
		ev, ok := e.MatchLine(`"For you, good sir; only 266 zorkmids for this smoky potion."`)
		require.True(t, ok)
		assert.Equal(t, SaleEvent{Item: "smoky potion", Price: 266}, ev)
	})

	t.Run("zero price is implausible", func(t *testing.T) {
		_, ok := e.MatchLine("You see here a ruby potion (for sale, 0 zorkmids).")
		assert.False(t, ok)
	})
}

func TestMatchLineOffer(t *testing.T) {
	e := NewExtractor()
	ev, ok := e.MatchLine("Asidonhopo offers 33 gold pieces for your swirly potion.  Sell it?")
	require.True(t, ok)
	assert.Equal(t, OfferEvent{Item: "swirly potion", Price: 33}, ev)
}

func TestMatchLineStatusRows(t *testing.T) {
	e := NewExtractor()

	ev, ok := e.MatchLine("[Aldeberan the Rambler      ]  St:12 Dx:14 Co:15 In:10 Wi:9 Ch:11  Neutral")
	require.True(t, ok)
	assert.Equal(t, StatusEvent{Name: "Aldeberan", Rank: "Rambler", Charisma: 11, Alignment: "Neutral"}, ev)

	ev, ok = e.MatchLine("Dlvl:3  $:120 HP:25(31) Pw:12(12) AC:6  Xp:4/87 T:1263")
	require.True(t, ok)
	sc := ev.(StatusContEvent)
	assert.Equal(t, 3, sc.Dlvl)
	assert.Equal(t, 120, sc.Gold)
	assert.Equal(t, 25, sc.HP)
	assert.Equal(t, 4, sc.XPLevel)
	assert.Equal(t, 1263, sc.Turn)

	// Polymorphed: hit dice instead of experience level.
	ev, ok = e.MatchLine("Dlvl:5  $:0 HP:12(12) Pw:3(3) AC:8  HD:4 T:900")
	require.True(t, ok)
	assert.Equal(t, -1, ev.(StatusContEvent).XPLevel)
}

func TestMatchLineEngraveMessages(t *testing.T) {
	e := NewExtractor()

	ev, ok := e.MatchLine(`You read: "Elbereth".`)
	require.True(t, ok)
	assert.Equal(t, EngraveReadEvent{Text: "Elbereth"}, ev)

	ev, ok = e.MatchLine(`You read: "Elberet?".`)
	require.True(t, ok)
	assert.Equal(t, EngraveReadEvent{Text: "Elberet?"}, ev)

	_, ok = e.MatchLine("You see no objects here.")
	require.True(t, ok)

	ev, ok = e.MatchLine("You write in the dust with your fingertip.--More--")
	require.True(t, ok)
	assert.IsType(t, EngraveDustEvent{}, ev)

	ev, ok = e.MatchLine("Unavailable command 'wizdetect'.")
	require.True(t, ok)
	assert.IsType(t, RestRequestEvent{}, ev)
}

func TestMatchLinePrompts(t *testing.T) {
	e := NewExtractor()

	for line, want := range map[string]Event{
		"Do you want to add to the current engraving? [ynq] (y)": AddEngravePromptEvent{},
		"Are you waiting to get hit?":                            HostilePromptEvent{},
		"Really save? [yn] (n)":                                  SavePromptEvent{},
		"Do you want your possessions identified? [ynq] (y)":     DeathEvent{},
		"You hear the chime of a cash register.--More--":         MoreEvent{},
	} {
		ev, ok := e.MatchLine(line)
		require.True(t, ok, "line %q", line)
		assert.Equal(t, want, ev, "line %q", line)
	}
}

func TestMorePending(t *testing.T) {
	e := NewExtractor()

	// The prompt counts even on the tail of a line MatchLine reports as a
	// higher-priority event.
	f := screen.NewFrame(`You read: "Elbereth".--More--` + "\n\n@....\n")
	assert.True(t, e.MorePending(f))

	f = screen.NewFrame(`You read: "Elbereth".` + "\n\n@....\n")
	assert.False(t, e.MorePending(f))
}

func TestMatchLineUnrecognized(t *testing.T) {
	e := NewExtractor()
	for _, line := range []string{
		"",
		"The kitten bites the newt.",
		"a ruby potion (for sale, -5 zorkmids)",
		`malicious "For you, x; only NaN zorkmids for this thing."`,
		"Call it what? zork",
	} {
		_, ok := e.MatchLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestScanFrame(t *testing.T) {
	e := NewExtractor()

	t.Run("extended command echo", func(t *testing.T) {
		f := screen.NewFrame("# sucker\n\n@....\n")
		evs := e.ScanFrame(f)
		require.Len(t, evs, 1)
		assert.Equal(t, ExtCmdEvent{Cmd: "sucker"}, evs[0])
	})

	t.Run("empty call prompt", func(t *testing.T) {
		f := screen.NewFrame("Call a cyan potion:   \n\n@....\n")
		evs := e.ScanFrame(f)
		require.Len(t, evs, 1)
		assert.Equal(t, CallPromptEvent{Item: "cyan potion"}, evs[0])
	})

	t.Run("filled call prompt ignored", func(t *testing.T) {
		f := screen.NewFrame("Call a cyan potion: Conf/Sleep\n")
		assert.Empty(t, e.ScanFrame(f))
	})

	t.Run("status rows in full frame", func(t *testing.T) {
		f := screen.NewFrame("\n@....\n\n" +
			"[Aldeberan the Rambler ]  St:12 Dx:14 Co:15 In:10 Wi:9 Ch:11  Neutral\n" +
			"Dlvl:3  $:120 HP:25(31) Pw:12(12) AC:6  Xp:4/87 T:1263\n")
		evs := e.ScanFrame(f)
		require.Len(t, evs, 2)
		assert.IsType(t, StatusEvent{}, evs[0])
		assert.IsType(t, StatusContEvent{}, evs[1])
	})

	t.Run("sale message wrapped across rows", func(t *testing.T) {
		f := screen.NewFrame("You see here a ruby potion (for sale, 100\nzorkmids).\n")
		evs := e.ScanFrame(f)
		require.Len(t, evs, 1)
		assert.Equal(t, SaleEvent{Item: "ruby potion", Price: 100}, evs[0])
	})
}
