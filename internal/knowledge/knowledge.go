// Package knowledge is the durable record of everything hackwatch has
// learned about the current game: candidate identity sets, resolved items,
// shop-pricing state, engraving condition and the turn-limit trigger.
//
// The store has a single writer, the engine loop. It is serialized to a
// versioned YAML file after mutations and reloaded at startup when the file
// matches the current session key; anything else (missing, corrupt, foreign
// version, foreign session) starts fresh.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cboone/hackwatch/internal/engrave"
)

// Version is the persistence schema version. Files with any other version
// are ignored rather than migrated.
const Version = 1

var (
	// ErrVersionMismatch reports a persistence file with a foreign schema
	// version.
	ErrVersionMismatch = errors.New("knowledge: persistence schema version mismatch")
	// ErrSessionMismatch reports a persistence file recorded for a
	// different session.
	ErrSessionMismatch = errors.New("knowledge: persistence file belongs to another session")
)

// ItemEntry records what is known about one unidentified item appearance.
type ItemEntry struct {
	// Alias is the name to type at the call prompt: the identity when
	// resolved, an abbreviation of the candidates otherwise.
	Alias string `yaml:"alias"`
	// Candidates is the current identity candidate set, non-empty until
	// resolution.
	Candidates []string `yaml:"candidates"`
	// Resolved is the unique identity once the set narrows to one.
	// Resolution is monotonic: never cleared or revised.
	Resolved string `yaml:"resolved,omitempty"`
	// Called records that the alias was already typed into a call prompt.
	Called bool `yaml:"called"`
}

// SessionState holds per-character facts that influence pricing.
type SessionState struct {
	Name     string `yaml:"name,omitempty"`
	Charisma int    `yaml:"charisma"`
	XPLevel  int    `yaml:"xp_level"`
	Sucker   bool   `yaml:"sucker"`
	Tourist  bool   `yaml:"tourist"`
	Wizard   bool   `yaml:"wizard"`
}

// TurnLimitState persists the exit trigger so a restart cannot re-fire it.
type TurnLimitState struct {
	Target int  `yaml:"target"`
	Fired  bool `yaml:"fired"`
}

type document struct {
	Version    int                   `yaml:"version"`
	Session    string                `yaml:"session"`
	State      SessionState          `yaml:"state"`
	Items      map[string]*ItemEntry `yaml:"items"`
	KnownItems map[string]string     `yaml:"known_items"`
	Engrave    engrave.State         `yaml:"engrave_state"`
	TurnLimit  TurnLimitState        `yaml:"turn_limit"`
}

// Store is the aggregate root. Not safe for concurrent use; the engine loop
// is the single writer.
type Store struct {
	path  string
	log   *zap.Logger
	doc   document
	dirty bool
}

// Open creates a Store for the given session key, loading prior knowledge
// from path when a matching file exists. An empty path disables
// persistence. Load problems are reported and degrade to a fresh store.
func Open(path, sessionKey string, log *zap.Logger) *Store {
	s := &Store{path: path, log: log}
	s.init(sessionKey)
	if path == "" {
		return s
	}
	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("starting with fresh knowledge", zap.String("path", path), zap.Error(err))
		}
		s.init(sessionKey)
	}
	return s
}

func (s *Store) init(sessionKey string) {
	s.doc = document{
		Version:    Version,
		Session:    sessionKey,
		Items:      make(map[string]*ItemEntry),
		KnownItems: make(map[string]string),
		Engrave:    engrave.Absent,
	}
	s.dirty = false
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("knowledge: corrupt persistence file: %w", err)
	}
	if doc.Version != Version {
		return fmt.Errorf("%w: file has %d, want %d", ErrVersionMismatch, doc.Version, Version)
	}
	if doc.Session != s.doc.Session {
		return fmt.Errorf("%w: file has %q, want %q", ErrSessionMismatch, doc.Session, s.doc.Session)
	}
	if doc.Items == nil {
		doc.Items = make(map[string]*ItemEntry)
	}
	if doc.KnownItems == nil {
		doc.KnownItems = make(map[string]string)
	}
	s.doc = doc
	s.dirty = false
	return nil
}

// Flush writes the store to disk if anything changed since the last write.
// Write failures are reported and leave the store dirty, so the next Flush
// retries.
func (s *Store) Flush() error {
	if !s.dirty || s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("knowledge: marshal: %w", err)
	}

	// The default path lives under ~/.hackwatch, which may not exist yet.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("knowledge: create state directory: %w", err)
	}

	// Guard against a second companion pointed at the same file.
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("knowledge: lock %s: %w", lock.Path(), err)
	}
	defer lock.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("knowledge: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("knowledge: rename: %w", err)
	}
	s.dirty = false
	return nil
}

// Reset wipes all learned knowledge for the session and removes the
// persistence file. The session key is preserved.
func (s *Store) Reset() {
	key := s.doc.Session
	s.init(key)
	if s.path == "" {
		return
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("could not remove persistence file", zap.String("path", s.path), zap.Error(err))
	}
	_ = os.Remove(s.path + ".lock")
}

// Unlink removes the persistence file without touching in-memory state,
// used when the game ends and the knowledge is worthless.
func (s *Store) Unlink() {
	if s.path == "" {
		return
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("could not remove persistence file", zap.String("path", s.path), zap.Error(err))
	}
	_ = os.Remove(s.path + ".lock")
	s.path = ""
}

// SessionKey returns the key the store is bound to.
func (s *Store) SessionKey() string {
	return s.doc.Session
}

// Session returns the current per-character state.
func (s *Store) Session() SessionState {
	return s.doc.State
}

// SetName records the character name. Returns whether it changed.
func (s *Store) SetName(name string) bool {
	if s.doc.State.Name == name {
		return false
	}
	s.doc.State.Name = name
	s.dirty = true
	return true
}

// SetCharisma records a charisma value. Returns whether it changed.
func (s *Store) SetCharisma(charisma int) bool {
	if s.doc.State.Charisma == charisma {
		return false
	}
	s.doc.State.Charisma = charisma
	s.dirty = true
	return true
}

// SetXPLevel records an experience level. Returns whether it changed.
func (s *Store) SetXPLevel(level int) bool {
	if s.doc.State.XPLevel == level {
		return false
	}
	s.doc.State.XPLevel = level
	s.dirty = true
	return true
}

// SetSucker records the sucker flag. Returns whether it changed.
func (s *Store) SetSucker(sucker bool) bool {
	if s.doc.State.Sucker == sucker {
		return false
	}
	s.doc.State.Sucker = sucker
	s.dirty = true
	return true
}

// SetTourist records the tourist flag. Returns whether it changed.
func (s *Store) SetTourist(tourist bool) bool {
	if s.doc.State.Tourist == tourist {
		return false
	}
	s.doc.State.Tourist = tourist
	s.dirty = true
	return true
}

// SetWizard records the wizard-mode flag. Returns whether it changed.
func (s *Store) SetWizard(wizard bool) bool {
	if s.doc.State.Wizard == wizard {
		return false
	}
	s.doc.State.Wizard = wizard
	s.dirty = true
	return true
}

// Item returns the entry for an unidentified item name, or nil.
func (s *Store) Item(name string) *ItemEntry {
	return s.doc.Items[name]
}

// PutItem stores the entry for an unidentified item name.
func (s *Store) PutItem(name string, entry *ItemEntry) {
	s.doc.Items[name] = entry
	s.dirty = true
}

// MarkDirty flags the store for the next Flush after an in-place entry
// mutation.
func (s *Store) MarkDirty() {
	s.dirty = true
}

// KnowIdentity records a fully resolved identity and its appearance.
func (s *Store) KnowIdentity(identity, appearance string) {
	s.doc.KnownItems[identity] = appearance
	s.dirty = true
}

// IsKnown reports whether an identity has already been resolved, for this
// or any other appearance.
func (s *Store) IsKnown(identity string) bool {
	_, ok := s.doc.KnownItems[identity]
	return ok
}

// EngraveState returns the persisted engraving condition.
func (s *Store) EngraveState() engrave.State {
	return s.doc.Engrave
}

// SetEngraveState persists the engraving condition.
func (s *Store) SetEngraveState(state engrave.State) {
	if s.doc.Engrave == state {
		return
	}
	s.doc.Engrave = state
	s.dirty = true
}

// TurnLimit returns the persisted exit-trigger state.
func (s *Store) TurnLimit() TurnLimitState {
	return s.doc.TurnLimit
}

// SetTurnLimit persists the exit-trigger state.
func (s *Store) SetTurnLimit(state TurnLimitState) {
	if s.doc.TurnLimit == state {
		return
	}
	s.doc.TurnLimit = state
	s.dirty = true
}

// Path returns the persistence file path, empty when disabled.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath places the persistence file next to other hackwatch state in
// the user's home directory, keyed by a sanitized session key.
func DefaultPath(sessionKey string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("knowledge: resolving home directory: %w", err)
	}
	name := make([]rune, 0, len(sessionKey))
	for _, r := range sessionKey {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			name = append(name, r)
		default:
			name = append(name, '_')
		}
	}
	return filepath.Join(home, ".hackwatch", string(name)+".yaml"), nil
}
