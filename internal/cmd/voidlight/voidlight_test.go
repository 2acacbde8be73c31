package voidlight

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/voidlight/internal/core/dice"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func scriptDice(t *testing.T, faces ...int) {
	t.Helper()
	original := newSource
	newSource = func() (dice.Source, error) { return dice.NewScripted(faces...), nil }
	t.Cleanup(func() { newSource = original })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRollCommands(t *testing.T) {
	tests := []struct {
		name  string
		faces []int
		args  []string
		want  []string
	}{
		{"duality hope", []int{9, 4}, []string{"roll", "duality"}, []string{"13 vs 10", "Success with Hope"}},
		{"duality crit", []int{7, 7}, []string{"roll", "duality", "--difficulty", "30"}, []string{"Critical Success"}},
		{"duality advantage", []int{3, 8, 5}, []string{"roll", "duality", "--advantage", "--difficulty", "15"}, []string{"d6: +5", "16 vs 15", "Success with Fear"}},
		{"d20", []int{20}, []string{"roll", "d20", "--modifier", "2"}, []string{"total: 22", "natural 20"}},
		{"damage", []int{3, 4}, []string{"roll", "damage", "2d6+1"}, []string{"2d6: 3 4", "total: 8"}},
		{"pool", []int{2, 5, 7}, []string{"roll", "pool", "2d6", "1d8+2"}, []string{"2d6: 2 5", "1d8: 7", "modifier: +2", "total: 16"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scriptDice(t, tt.faces...)
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Fatalf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestRollDamageRejectsBadDice(t *testing.T) {
	if _, err := runCLI(t, "roll", "damage", "lots"); err == nil {
		t.Fatal("expected dice error")
	}
}

func TestRollPoolSeed(t *testing.T) {
	scriptDice(t)
	first, err := runCLI(t, "roll", "pool", "3d12", "2d6", "--seed", "12345")
	if err != nil {
		t.Fatalf("first roll: %v", err)
	}
	second, err := runCLI(t, "roll", "pool", "3d12", "2d6", "--seed", "12345")
	if err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if first != second {
		t.Fatalf("seeded rolls differ:\n%s\n%s", first, second)
	}

	want, err := dice.RollDice(dice.Request{Dice: []dice.Spec{{Sides: 12, Count: 3}, {Sides: 6, Count: 2}}, Seed: 12345})
	if err != nil {
		t.Fatalf("roll dice: %v", err)
	}
	if !strings.Contains(first, renderPool(want, 0)) {
		t.Fatalf("output %q does not match seeded result %+v", first, want)
	}

	if _, err := runCLI(t, "roll", "pool", "101d6", "--seed", "1"); err == nil {
		t.Fatal("expected oversized pool to fail")
	}
}

func TestTemplates(t *testing.T) {
	out, err := runCLI(t, "templates", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, id := range []string{"blank", "derelicts_secret", "example_campaign", "hearts_in_the_void"} {
		if !strings.Contains(out, id) {
			t.Fatalf("list %q missing %s", out, id)
		}
	}

	out, err = runCLI(t, "templates", "show", "example_campaign")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "players: 2") || !strings.Contains(out, "scenes: 3") {
		t.Fatalf("show output = %q", out)
	}

	_, err = runCLI(t, "--lang", "pt-BR", "templates", "show", "derelicts_secrte")
	if err == nil || !strings.Contains(err.Error(), "Você quis dizer derelicts_secret?") {
		t.Fatalf("err = %v", err)
	}
}

func TestBestiary(t *testing.T) {
	out, err := runCLI(t, "bestiary", "tier = 5")
	if err != nil {
		t.Fatalf("bestiary: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header and 2 monsters: %q", len(lines), out)
	}

	out, err = runCLI(t, "bestiary")
	if err != nil {
		t.Fatalf("bestiary: %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(out), "\n")); got != 19 {
		t.Fatalf("lines = %d, want 19", got)
	}

	if _, err := runCLI(t, "bestiary", "speed > 3"); err == nil || !strings.Contains(err.Error(), "Cannot apply filter") {
		t.Fatalf("err = %v", err)
	}
}

const legacySave = `{"sessionName":"Old Run","fearTokens":4,"players":[{"name":"Vex","hp":5,"maxHp":7}]}`

func TestSaveInspectAndConvert(t *testing.T) {
	path := writeFile(t, "old.json", legacySave)

	out, err := runCLI(t, "save", "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "session: Old Run") || !strings.Contains(out, "fear: 4/12") || !strings.Contains(out, "players: 1 Vex") {
		t.Fatalf("inspect output = %q", out)
	}

	out, err = runCLI(t, "save", "convert", path)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, `"version": "1.0"`) {
		t.Fatalf("full convert output = %q", out)
	}

	target := filepath.Join(t.TempDir(), "quick.json")
	if _, err := runCLI(t, "save", "convert", path, "--format", "quick", "-o", target); err != nil {
		t.Fatalf("quick convert: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `"savedAt"`) {
		t.Fatalf("quick convert output = %s", data)
	}

	if _, err := runCLI(t, "save", "convert", path, "--format", "tiny"); err == nil {
		t.Fatal("expected format error")
	}
	broken := writeFile(t, "broken.json", "{")
	if _, err := runCLI(t, "save", "inspect", broken); err == nil || !strings.Contains(err.Error(), "could not be read") {
		t.Fatalf("err = %v", err)
	}
}

func TestSlots(t *testing.T) {
	db := filepath.Join(t.TempDir(), "slots", "cli.db")
	path := writeFile(t, "old.json", legacySave)

	out, err := runCLI(t, "--db", db, "slots", "list")
	if err != nil || !strings.Contains(out, "no slots") {
		t.Fatalf("empty list = %q, %v", out, err)
	}
	if out, err = runCLI(t, "--db", db, "slots", "save", "arc-one", path); err != nil || !strings.HasPrefix(out, "saved arc-one") {
		t.Fatalf("save = %q, %v", out, err)
	}
	out, err = runCLI(t, "--db", db, "slots", "list")
	if err != nil || !strings.Contains(out, "arc-one") || !strings.Contains(out, "Old Run") {
		t.Fatalf("list = %q, %v", out, err)
	}
	out, err = runCLI(t, "--db", db, "slots", "load", "arc-one", "-o", "-")
	if err != nil || !strings.Contains(out, `"sessionName": "Old Run"`) {
		t.Fatalf("load = %q, %v", out, err)
	}
	if _, err := runCLI(t, "--db", db, "slots", "delete", "arc-one"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = runCLI(t, "--db", db, "slots", "delete", "arc-one")
	if err == nil || err.Error() != "No save slot named arc-one." {
		t.Fatalf("err = %v", err)
	}
}
