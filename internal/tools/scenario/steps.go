package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "template":
		return r.dispatch(ctx, state, step, app.Action{Type: "session.template", Template: argString(step.Args, "id")}, nil)
	case "dice":
		faces, err := argInts(step.Args, "faces")
		if err != nil {
			return err
		}
		state.dice.Push(faces...)
		return nil
	case "character":
		return r.runCharacter(ctx, state, step)
	case "bestiary":
		return r.dispatch(ctx, state, step, app.Action{Type: "bestiary.add", Monster: argString(step.Args, "name")}, nil)
	case "action":
		action, err := actionFromArgs(step.Args)
		if err != nil {
			return err
		}
		return r.dispatch(ctx, state, step, action, nil)
	case "hope", "spotlight", "damage", "armor":
		return r.runCharacterAction(ctx, state, step)
	case "clock":
		return r.dispatch(ctx, state, step, app.Action{
			Type:     "clock.add",
			Name:     argString(step.Args, "name"),
			Segments: argInt(step.Args, "segments"),
			Hidden:   argBool(step.Args, "hidden"),
		}, nil)
	case "tick":
		clock, err := findClock(state, argString(step.Args, "name"))
		if err != nil {
			return err
		}
		return r.dispatch(ctx, state, step, app.Action{Type: "clock.adjust", ID: clock.ID, Delta: argInt(step.Args, "delta")}, nil)
	case "scene":
		return r.dispatch(ctx, state, step, app.Action{Type: "scene.add", Name: argString(step.Args, "name")}, nil)
	case "move":
		return r.dispatch(ctx, state, step, app.Action{Type: "move.execute", Move: argString(step.Args, "name")}, nil)
	case "roll":
		return r.runRoll(ctx, state, step)
	default:
		if strings.HasPrefix(step.Kind, "expect_") {
			return r.runExpectation(state, step)
		}
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// dispatch applies action. A step marked expect_error must fail with that
// code; onResult only runs for successful actions.
func (r *Runner) dispatch(ctx context.Context, state *scenarioState, step Step, action app.Action, onResult func(app.Result)) error {
	res, err := state.controller.Dispatch(ctx, action)
	if want := argString(step.Args, "expect_error"); want != "" {
		if err == nil {
			return r.assertions.Failf("%s: expected error %s, action succeeded", action.Type, want)
		}
		if got := string(apperrors.CodeOf(err)); got != want {
			return r.assertions.Failf("%s: error = %s, want %s", action.Type, got, want)
		}
		r.logf("expected error: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	if onResult != nil {
		onResult(res)
	}
	return nil
}

func (r *Runner) runCharacter(ctx context.Context, state *scenarioState, step Step) error {
	in := domain.DefaultCharacterInput()
	in.Name = argString(step.Args, "name")
	in.Type = argString(step.Args, "type")
	for key, field := range map[string]*int{
		"hp":      &in.MaxHP,
		"stress":  &in.MaxStress,
		"armor":   &in.Armor,
		"minor":   &in.ArmorMinor,
		"severe":  &in.ArmorSevere,
		"slots":   &in.ArmorSlots,
		"evasion": &in.Evasion,
	} {
		if _, ok := step.Args[key]; ok {
			*field = argInt(step.Args, key)
		}
	}
	in.IsAlly = argBool(step.Args, "ally")
	in.Hidden = argBool(step.Args, "hidden")
	return r.dispatch(ctx, state, step, app.Action{Type: "character.add", Kind: argString(step.Args, "kind"), Character: &in}, nil)
}

func (r *Runner) runCharacterAction(ctx context.Context, state *scenarioState, step Step) error {
	c, err := findCharacter(state, argString(step.Args, "name"))
	if err != nil {
		return err
	}
	action := app.Action{Kind: string(c.Kind), ID: c.ID}
	switch step.Kind {
	case "hope":
		action.Type = "hope.adjust"
		action.Delta = argInt(step.Args, "delta")
	case "spotlight":
		action.Type = "spotlight.set"
	case "damage":
		action.Type = "character.damage"
		action.Amount = argInt(step.Args, "amount")
		action.UseArmor = argBool(step.Args, "armor")
	case "armor":
		action.Type = "character.armor"
		action.Index = argInt(step.Args, "index")
	}
	return r.dispatch(ctx, state, step, action, nil)
}

func (r *Runner) runRoll(ctx context.Context, state *scenarioState, step Step) error {
	action := app.Action{Type: "dice." + argString(step.Args, "type"), Dice: argString(step.Args, "dice")}
	return r.dispatch(ctx, state, step, action, func(res app.Result) {
		if record, ok := res.Value.(domain.RollRecord); ok {
			state.lastRoll = &record
			r.logf("roll %s: total=%d outcome=%s", record.Type, record.Total, record.Outcome)
		}
	})
}

func (r *Runner) runExpectation(state *scenarioState, step Step) error {
	view, _ := state.controller.View(domain.KeeperView)
	want := argInt(step.Args, "value")
	switch step.Kind {
	case "expect_fear":
		if view.Fear != want {
			return r.assertions.Failf("fear = %d, want %d", view.Fear, want)
		}
	case "expect_history":
		if got := len(view.Dice.RollHistory); got != want {
			return r.assertions.Failf("roll history = %d, want %d", got, want)
		}
	case "expect_total", "expect_outcome":
		if state.lastRoll == nil {
			return r.assertions.Failf("%s: no roll yet", step.Kind)
		}
		if step.Kind == "expect_total" && state.lastRoll.Total != want {
			return r.assertions.Failf("roll total = %d, want %d", state.lastRoll.Total, want)
		}
		if outcome := argString(step.Args, "outcome"); step.Kind == "expect_outcome" && string(state.lastRoll.Outcome) != outcome {
			return r.assertions.Failf("roll outcome = %s, want %s", state.lastRoll.Outcome, outcome)
		}
	case "expect_hope", "expect_hp", "expect_stress", "expect_armor":
		c, err := findCharacter(state, argString(step.Args, "name"))
		if err != nil {
			return err
		}
		got := map[string]int{
			"expect_hope":   c.Hope,
			"expect_hp":     c.HP,
			"expect_stress": c.Stress,
			"expect_armor":  len(c.ArmorMarked),
		}[step.Kind]
		if got != want {
			return r.assertions.Failf("%s of %s = %d, want %d", strings.TrimPrefix(step.Kind, "expect_"), c.Name, got, want)
		}
	case "expect_clock":
		clock, err := findClock(state, argString(step.Args, "name"))
		if err != nil {
			return err
		}
		if clock.Filled != want {
			return r.assertions.Failf("clock %s = %d, want %d", clock.Name, clock.Filled, want)
		}
	case "expect_spotlight":
		name := argString(step.Args, "name")
		switch {
		case view.Spotlight == nil && name != "":
			return r.assertions.Failf("spotlight is empty, want %s", name)
		case view.Spotlight != nil && !strings.EqualFold(view.Spotlight.Name, name):
			return r.assertions.Failf("spotlight = %s, want %q", view.Spotlight.Name, name)
		}
	default:
		return fmt.Errorf("unknown expectation %q", step.Kind)
	}
	return nil
}

func findCharacter(state *scenarioState, name string) (domain.CharacterView, error) {
	view, _ := state.controller.View(domain.KeeperView)
	for _, k := range domain.Kinds {
		for _, c := range view.Roster(k) {
			if strings.EqualFold(c.Name, name) {
				return c, nil
			}
		}
	}
	return domain.CharacterView{}, fmt.Errorf("no character named %q", name)
}

func findClock(state *scenarioState, name string) (domain.Clock, error) {
	view, _ := state.controller.View(domain.KeeperView)
	for _, c := range view.Clocks {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return domain.Clock{}, fmt.Errorf("no clock named %q", name)
}

// actionFromArgs decodes a Lua table into an action through its JSON form.
func actionFromArgs(args map[string]any) (app.Action, error) {
	fields := make(map[string]any, len(args))
	for k, v := range args {
		if k != "expect_error" {
			fields[k] = v
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return app.Action{}, fmt.Errorf("encode action: %w", err)
	}
	var action app.Action
	if err := json.Unmarshal(data, &action); err != nil {
		return app.Action{}, fmt.Errorf("decode action: %w", err)
	}
	return action, nil
}

func argString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

func argInt(args map[string]any, key string) int {
	switch value := args[key].(type) {
	case int:
		return value
	case float64:
		return int(value)
	default:
		return 0
	}
}

func argBool(args map[string]any, key string) bool {
	value, _ := args[key].(bool)
	return value
}

func argInts(args map[string]any, key string) ([]int, error) {
	list, _ := args[key].([]any)
	out := make([]int, 0, len(list))
	for i, v := range list {
		n, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a whole number", key, i+1)
		}
		out = append(out, n)
	}
	return out, nil
}
