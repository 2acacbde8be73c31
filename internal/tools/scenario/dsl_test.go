package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScenarioFixture(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.lua")
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadScenarioRecordsSteps(t *testing.T) {
	scenario, err := LoadScenario("inline", `
local s = Scenario.new("steps")
s:player("Vex", {hp = 6, ally = false})
s:dice({7, 7})
s:dice(3, 4)
s:spend_fear(2)
s:expect_error("INSUFFICIENT_FEAR")
s:action("clock.add", {name = "Reactor", segments = 4})
return s
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "steps" {
		t.Fatalf("name = %q", scenario.Name)
	}
	kinds := make([]string, len(scenario.Steps))
	for i, step := range scenario.Steps {
		kinds[i] = step.Kind
	}
	if got := strings.Join(kinds, ","); got != "character,dice,dice,action,action" {
		t.Fatalf("kinds = %s", got)
	}

	player := scenario.Steps[0].Args
	if player["name"] != "Vex" || player["kind"] != "player" || player["hp"] != 6 || player["ally"] != false {
		t.Fatalf("player args = %v", player)
	}
	for _, i := range []int{1, 2} {
		faces, ok := scenario.Steps[i].Args["faces"].([]any)
		if !ok || len(faces) != 2 {
			t.Fatalf("step %d faces = %v", i, scenario.Steps[i].Args["faces"])
		}
	}
	spend := scenario.Steps[3].Args
	if spend["type"] != "fear.spend" || spend["amount"] != 2 || spend["expect_error"] != "INSUFFICIENT_FEAR" {
		t.Fatalf("spend args = %v", spend)
	}
	if clock := scenario.Steps[4].Args; clock["type"] != "clock.add" || clock["segments"] != 4 {
		t.Fatalf("clock args = %v", clock)
	}
}

func TestLoadScenarioFromFileDefaultsName(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new()`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "fixture" {
		t.Fatalf("name = %q, want fixture", scenario.Name)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"syntax", `local s = `, "load lua"},
		{"no return", `local s = Scenario.new("x")`, "must return Scenario"},
		{"wrong return", `return 42`, "must return Scenario"},
		{"runtime error", `error("boom")`, "run lua"},
		{"expect first", `local s = Scenario.new("x"); s:expect_error("X"); return s`, "run lua"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(tt.name, tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	if got := normalizeNumber(3); got != 3 {
		t.Fatalf("normalizeNumber(3) = %#v", got)
	}
	if got := normalizeNumber(2.5); got != 2.5 {
		t.Fatalf("normalizeNumber(2.5) = %#v", got)
	}
}
