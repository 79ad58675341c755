package gameharness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cboone/hackwatch/internal/screen"
)

// MatchSnapshot compares the current pane content against a golden file
// under testdata/<name>.txt. Set HACKWATCH_UPDATE=1 to create or update
// golden files.
func (g *Game) MatchSnapshot(name string) {
	g.t.Helper()
	FrameSnapshot(g.t, g.Capture(), name)
}

// FrameSnapshot compares a previously captured frame against a golden
// file.
func FrameSnapshot(t testing.TB, f *screen.Frame, name string) {
	t.Helper()

	path := filepath.Join("testdata", sanitizeName(name)+".txt")
	content := normalize(f.String())

	if shouldUpdate() {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("gameharness: snapshot: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("gameharness: snapshot: %v", err)
		}
		return
	}

	golden, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("gameharness: snapshot: golden file not found: %s\nRun with HACKWATCH_UPDATE=1 to create it.\n\nActual screen:\n%s", path, content)
		}
		t.Fatalf("gameharness: snapshot: %v", err)
	}
	if string(golden) != content {
		t.Fatalf("gameharness: snapshot mismatch for %q\nGolden file: %s\nRun with HACKWATCH_UPDATE=1 to update.\n\n--- golden ---\n%s\n--- actual ---\n%s",
			name, path, string(golden), content)
	}
}

// normalize makes frame content stable for golden-file diffs: trailing
// spaces and trailing blank lines go, a single trailing newline stays.
func normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func shouldUpdate() bool {
	v := os.Getenv("HACKWATCH_UPDATE")
	return v == "1" || v == "true" || v == "yes"
}
