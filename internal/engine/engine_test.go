package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cboone/hackwatch/internal/config"
	"github.com/cboone/hackwatch/internal/engrave"
	"github.com/cboone/hackwatch/internal/knowledge"
	"github.com/cboone/hackwatch/internal/nethack"
	"github.com/cboone/hackwatch/internal/screen"
)

// fakePane scripts a pane: Capture returns the current frame, WaitChange
// advances to the next scripted one. Keystrokes and notifications are
// recorded in order.
type fakePane struct {
	frames      []*screen.Frame
	idx         int
	sent        []string
	notes       []string
	captureErrs int
}

func (p *fakePane) current() *screen.Frame {
	if len(p.frames) == 0 {
		return screen.NewFrame("")
	}
	if p.idx >= len(p.frames) {
		return p.frames[len(p.frames)-1]
	}
	return p.frames[p.idx]
}

func (p *fakePane) Capture(context.Context) (*screen.Frame, error) {
	if p.captureErrs > 0 {
		p.captureErrs--
		return nil, errors.New("pane went away")
	}
	return p.current(), nil
}

func (p *fakePane) SendKeys(_ context.Context, keys ...string) error {
	p.sent = append(p.sent, keys...)
	return nil
}

func (p *fakePane) Type(_ context.Context, s string) error {
	p.sent = append(p.sent, s)
	return nil
}

func (p *fakePane) Notify(_ context.Context, msg string) error {
	p.notes = append(p.notes, msg)
	return nil
}

func (p *fakePane) WaitChange(context.Context, *screen.Frame) (*screen.Frame, error) {
	if p.idx+1 < len(p.frames) {
		p.idx++
		return p.current(), nil
	}
	return nil, errors.New("no change")
}

var statusRows = []string{
	"[Wanderer the Conjurer    ]  St:16 Dx:14 Co:15 In:9 Wi:10 Ch:11  Neutral",
	"Dlvl:2  $:120  HP:14(16) Pw:5(5) AC:6  Xp:3/34 T:1263",
}

// fr builds a frame with the given message rows above the status rows.
func fr(lines ...string) *screen.Frame {
	all := append(append([]string{}, lines...), "", "")
	all = append(all, statusRows...)
	return screen.NewFrame(strings.Join(all, "\n"))
}

func testConfig() *config.Config {
	return &config.Config{
		Pane:                  "nh",
		AbbrevLength:          config.DefaultAbbrevLength,
		PollInterval:          config.DefaultPollInterval,
		MessageDuration:       config.DefaultMessageDuration,
		CaptureFailureCeiling: config.DefaultCaptureFailures,
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, frames ...*screen.Frame) (*Engine, *fakePane, *knowledge.Store) {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := knowledge.Open("", "nh", log)
	pane := &fakePane{frames: frames}
	return New(cfg, pane, store, log), pane, store
}

func TestStepIgnoresGameBeforeSync(t *testing.T) {
	// No status rows on screen means no sync, so the sale is not acted on.
	frame := screen.NewFrame("You see here a milky potion (for sale, 20 zorkmids).")
	e, pane, store := newTestEngine(t, testConfig(), frame)

	require.NoError(t, e.Step(context.Background()))
	assert.False(t, e.synced)
	assert.Empty(t, pane.sent)
	assert.Nil(t, store.Item("milky potion"))
}

func TestStepSyncsOnStatusRows(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig(), fr())

	require.NoError(t, e.Step(context.Background()))
	assert.True(t, e.synced)
	assert.Equal(t, 11, e.store.Session().Charisma)
	assert.Equal(t, 3, e.store.Session().XPLevel)
}

func TestPriceIdentifyResolves(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a milky potion (for sale, 20 zorkmids)."))

	require.NoError(t, e.Step(context.Background()))

	entry := store.Item("milky potion")
	require.NotNil(t, entry)
	assert.Equal(t, "potion of healing", entry.Resolved)
	assert.Equal(t, "potion of healing", entry.Alias)
	assert.False(t, entry.Called)
	assert.True(t, store.IsKnown("potion of healing"))
	assert.Contains(t, pane.notes, "Item uniquely identified: potion of healing! Now call it.")
}

func TestPriceIdentifyAmbiguousAlias(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a cyan potion (for sale, 100 zorkmids)."))

	require.NoError(t, e.Step(context.Background()))

	entry := store.Item("cyan potion")
	require.NotNil(t, entry)
	assert.Empty(t, entry.Resolved)
	assert.Len(t, entry.Candidates, 5)
	// The full names run over the 60-character cap, so words collapse.
	assert.Equal(t, "Confusion/ExtraHealing/Hallucination/RestoreAbility/Sleeping", entry.Alias)
	assert.Contains(t, pane.notes[len(pane.notes)-1], "Now call it.")
}

func TestRepeatedObservationIsQuiet(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a cyan potion (for sale, 100 zorkmids)."),
		fr("Izchak offers 50 gold pieces for your cyan potion."))

	require.NoError(t, e.Step(context.Background()))
	entry := store.Item("cyan potion")
	require.NotNil(t, entry)
	before := len(pane.notes)

	// A selling offer of 50 implies the same base price of 100: no news,
	// no repeated notification.
	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, entry.Candidates, store.Item("cyan potion").Candidates)
	assert.Len(t, pane.notes, before)
}

func TestContradictionKeepsResolvedIdentity(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a milky potion (for sale, 20 zorkmids)."),
		fr("You see here a milky potion (for sale, 50 zorkmids)."))

	require.NoError(t, e.Step(context.Background()))
	require.Equal(t, "potion of healing", store.Item("milky potion").Resolved)

	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, "potion of healing", store.Item("milky potion").Resolved)
	assert.Contains(t, pane.notes, "Price contradicts known identity of milky potion")
}

func TestSuckerSlicesBuyCandidates(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a milky potion (for sale, 27 zorkmids)."))
	e.setSucker(context.Background(), true)
	require.Contains(t, pane.notes, "You are now sucker")

	// 27 zorkmids at charisma 11 with the sucker markup backs out to a
	// base price of 20: uniquely the healing potion.
	require.NoError(t, e.Step(context.Background()))
	entry := store.Item("milky potion")
	require.NotNil(t, entry)
	assert.Equal(t, "potion of healing", entry.Resolved)
}

func TestTouristAutoDetectedAsSucker(t *testing.T) {
	rows := []string{
		"[Wanderer the Rambler     ]  St:16 Dx:14 Co:15 In:9 Wi:10 Ch:11  Neutral",
		statusRows[1],
	}
	e, pane, store := newTestEngine(t, testConfig(),
		screen.NewFrame(strings.Join(rows, "\n")))

	require.NoError(t, e.Step(context.Background()))
	assert.True(t, store.Session().Tourist)
	assert.True(t, store.Session().Sucker)
	assert.Contains(t, pane.notes, "You are now sucker")
}

func TestCallPromptTypedOnce(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(), fr("Call a milky potion:"))
	store.PutItem("milky potion", &knowledge.ItemEntry{
		Alias:      "potion of healing",
		Candidates: []string{"potion of healing"},
		Resolved:   "potion of healing",
	})

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"potion of healing", "C-m"}, pane.sent)
	assert.True(t, store.Item("milky potion").Called)

	// The prompt is still on screen next cycle; the alias is not retyped.
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"potion of healing", "C-m"}, pane.sent)
}

func TestAutoElberethTypesTheWord(t *testing.T) {
	cfg := testConfig()
	cfg.AutoElbereth = true
	e, pane, store := newTestEngine(t, cfg,
		fr("You write in the dust with your fingertip.--More--"))

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"C-m", "Elbereth", "C-m", ":"}, pane.sent)
	assert.Equal(t, engrave.Effective, store.EngraveState())
}

func TestRestOnIntactGlyph(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("Unavailable command 'wizdetect'."),
		fr(`You read: "Elbereth".--More--`),
		fr(),
		fr(),
		fr())

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{":", "C-m", ".", ":"}, pane.sent)
	assert.Equal(t, engrave.Effective, store.EngraveState())
}

func TestRestAbortsWhenHostileIsNear(t *testing.T) {
	e, pane, _ := newTestEngine(t, testConfig(),
		fr("Unavailable command 'wizdetect'."),
		fr(`You read: "Elbereth".`),
		fr("Are you waiting to get hit?"))

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{":", "."}, pane.sent)
}

func TestRestReengravesCorruptGlyph(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("Unavailable command 'wizdetect'."),
		fr(`You read: "Elberet?".`),
		fr("What do you want to write with? [- bcd or ?*]"),
		fr("Do you want to add to the current engraving?"),
		fr("You wipe out the message that was written in the dust here.--More--"),
		fr("What do you want to write in the dust here?"),
		fr())

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{":", "E", "-", "n", "C-m", "Elbereth", "C-m", ":"}, pane.sent)
	assert.Equal(t, engrave.Effective, store.EngraveState())
}

func TestWizardModeDisablesShortcuts(t *testing.T) {
	rows := []string{
		"Unavailable command 'wizdetect'.",
		"",
		"[wizard the Evoker        ]  St:16 Dx:14 Co:15 In:9 Wi:10 Ch:11  Neutral",
		statusRows[1],
	}
	e, pane, store := newTestEngine(t, testConfig(),
		screen.NewFrame(strings.Join(rows, "\n")))

	require.NoError(t, e.Step(context.Background()))
	assert.True(t, store.Session().Wizard)
	assert.Empty(t, pane.sent)
}

func TestExtCmdSucker(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(), fr("# sucker"))

	require.NoError(t, e.Step(context.Background()))
	assert.True(t, store.Session().Sucker)
	assert.Equal(t, []string{"Escape", "Escape"}, pane.sent)
}

func TestExtCmdResetWipesState(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(), fr(), fr("# reset"))
	require.NoError(t, e.Step(context.Background()))
	store.PutItem("cyan potion", &knowledge.ItemEntry{Alias: "x", Candidates: []string{"x"}})
	require.True(t, e.synced)

	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Nil(t, store.Item("cyan potion"))
	assert.False(t, e.synced)
	assert.Equal(t, []string{"Escape", "Escape"}, pane.sent)
}

func TestUnknownExtCmdLeftAlone(t *testing.T) {
	e, pane, _ := newTestEngine(t, testConfig(), fr("# force"))

	require.NoError(t, e.Step(context.Background()))
	assert.Empty(t, pane.sent)
}

func TestDeathEndsSessionAndUnlinks(t *testing.T) {
	log := zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	store := knowledge.Open(path, "nh", log)
	store.SetCharisma(11)
	require.NoError(t, store.Flush())
	require.FileExists(t, path)

	pane := &fakePane{frames: []*screen.Frame{
		fr(),
		screen.NewFrame("Do you want your possessions identified? [ynq] (n)"),
	}}
	e := New(testConfig(), pane, store, log)

	require.NoError(t, e.Step(context.Background()))
	require.True(t, e.synced)

	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.True(t, e.stopping)
	assert.NoFileExists(t, path)
}

func TestTurnLimitSavesAndQuits(t *testing.T) {
	cfg := testConfig()
	cfg.TurnLimit = 1000
	cfg.AlignedTurnLimit = true

	later := []string{
		"",
		"",
		statusRows[0],
		"Dlvl:2  $:120  HP:14(16) Pw:5(5) AC:6  Xp:3/34 T:2005",
	}
	e, pane, store := newTestEngine(t, cfg,
		fr(),
		screen.NewFrame(strings.Join(later, "\n")),
		screen.NewFrame("Really save? [yn]"))

	// First status row arms the aligned target at the next multiple.
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, 2000, store.TurnLimit().Target)
	assert.False(t, store.TurnLimit().Fired)
	assert.Empty(t, pane.sent)

	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"S", "y"}, pane.sent)
	assert.Contains(t, pane.notes, "Turn limit reached, saving game...")
	assert.True(t, store.TurnLimit().Fired)
	assert.False(t, e.synced)
}

func TestSaveWaitsForPendingMore(t *testing.T) {
	cfg := testConfig()
	cfg.TurnLimit = 1000
	cfg.AlignedTurnLimit = true

	later := func(msg string) *screen.Frame {
		return screen.NewFrame(strings.Join([]string{
			msg,
			"",
			statusRows[0],
			"Dlvl:2  $:120  HP:14(16) Pw:5(5) AC:6  Xp:3/34 T:2005",
		}, "\n"))
	}
	e, pane, store := newTestEngine(t, cfg,
		fr(),
		later("You hear the chime of a cash register.--More--"),
		later(""),
		screen.NewFrame("Really save? [yn]"))

	require.NoError(t, e.Step(context.Background()))
	require.Equal(t, 2000, store.TurnLimit().Target)

	// The limit fires while a --More-- is on screen; it must be
	// acknowledged before the save command, or the game swallows the "S".
	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"C-m", "S", "y"}, pane.sent)
	assert.True(t, store.TurnLimit().Fired)
	assert.False(t, e.synced)
}

func TestFailedSaveRetriesNextTurn(t *testing.T) {
	cfg := testConfig()
	cfg.TurnLimit = 1000
	cfg.AlignedTurnLimit = true

	later := func(turn string) *screen.Frame {
		return screen.NewFrame(strings.Join([]string{
			"",
			"",
			statusRows[0],
			"Dlvl:2  $:120  HP:14(16) Pw:5(5) AC:6  Xp:3/34 T:" + turn,
		}, "\n"))
	}
	e, pane, store := newTestEngine(t, cfg,
		fr(),
		later("2005"),
		later("2006"),
		screen.NewFrame("Really save? [yn]"))

	require.NoError(t, e.Step(context.Background()))

	// The confirm prompt does not appear: the save is not done, so the
	// fired flag must not be persisted yet.
	pane.idx = 1
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"S"}, pane.sent)
	assert.False(t, store.TurnLimit().Fired)
	assert.True(t, e.synced)

	// The next turn observation retries and this time gets the prompt.
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{"S", "S", "y"}, pane.sent)
	assert.True(t, store.TurnLimit().Fired)
	assert.False(t, e.synced)
}

func TestObservePrefersFreshestStatusRow(t *testing.T) {
	cfg := testConfig()
	cfg.TurnLimit = 100
	e, _, _ := newTestEngine(t, cfg, fr())

	// The differencer can deliver a status row it withheld last cycle next
	// to the current one; the target must be armed from the current row.
	e.observe(context.Background(), []nethack.Event{
		nethack.StatusContEvent{Turn: 1263, XPLevel: 3},
		nethack.StatusContEvent{Turn: 1400, XPLevel: 3},
	})
	assert.Equal(t, 1500, e.limit.Target())
}

func TestRestStopsHammeringStalledMore(t *testing.T) {
	e, pane, _ := newTestEngine(t, testConfig(),
		fr("Unavailable command 'wizdetect'."),
		fr("You kill the newt!--More--"))

	// The pane never moves past the --More--; the prompt is acknowledged
	// once and the rest attempt is abandoned.
	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, []string{":", "C-m"}, pane.sent)
}

func TestFixedAppearanceResolvesWithoutPrices(t *testing.T) {
	e, pane, store := newTestEngine(t, testConfig(),
		fr("You see here a hooded cloak (for sale, 40 zorkmids)."))

	require.NoError(t, e.Step(context.Background()))
	entry := store.Item("hooded cloak")
	require.NotNil(t, entry)
	assert.Equal(t, "dwarvish cloak", entry.Resolved)
	assert.True(t, store.IsKnown("dwarvish cloak"))
	assert.Contains(t, pane.notes, "Item uniquely identified: dwarvish cloak! Now call it.")

	// Sighting it again is no news.
	before := len(pane.notes)
	require.NoError(t, e.Step(context.Background()))
	assert.Len(t, pane.notes, before)
}

func TestCaptureFailureCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.CaptureFailureCeiling = 3
	e, pane, _ := newTestEngine(t, cfg, fr())
	pane.captureErrs = 5

	require.NoError(t, e.Step(context.Background()))
	require.NoError(t, e.Step(context.Background()))
	err := e.Step(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consecutive capture failures")
}

func TestCaptureRecoveryResetsCounter(t *testing.T) {
	cfg := testConfig()
	cfg.CaptureFailureCeiling = 3
	e, pane, _ := newTestEngine(t, cfg, fr())
	pane.captureErrs = 2

	require.NoError(t, e.Step(context.Background()))
	require.NoError(t, e.Step(context.Background()))
	require.NoError(t, e.Step(context.Background())) // succeeds, resets
	pane.captureErrs = 2
	require.NoError(t, e.Step(context.Background()))
	require.NoError(t, e.Step(context.Background()))
}
