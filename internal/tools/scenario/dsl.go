package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps recorded by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one recorded call.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs the script at path and returns the scenario it
// builds. Scripts without a name are named after the file.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs source as a script named name.
func LoadScenario(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadBuffer(state, source, name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func scenarioNew(state *lua.State) int {
	scenario := &Scenario{Name: lua.OptString(state, 1, "")}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "template", Function: stringStep("template", "id")},
	{Name: "dice", Function: scenarioDice},
	{Name: "player", Function: characterStep("player")},
	{Name: "npc", Function: characterStep("npc")},
	{Name: "monster", Function: characterStep("monster")},
	{Name: "bestiary", Function: stringStep("bestiary", "name")},
	{Name: "fear", Function: intAction("fear.adjust", "delta")},
	{Name: "spend_fear", Function: intAction("fear.spend", "amount")},
	{Name: "difficulty", Function: intAction("dice.difficulty", "value")},
	{Name: "modifier", Function: intAction("dice.modifier", "delta")},
	{Name: "advantage", Function: scenarioAdvantage},
	{Name: "hope", Function: scenarioHope},
	{Name: "spotlight", Function: stringStep("spotlight", "name")},
	{Name: "damage", Function: scenarioDamage},
	{Name: "mark_armor", Function: scenarioMarkArmor},
	{Name: "clock", Function: scenarioClock},
	{Name: "tick", Function: scenarioTick},
	{Name: "scene", Function: stringStep("scene", "name")},
	{Name: "move", Function: stringStep("move", "name")},
	{Name: "roll_duality", Function: rollStep("duality")},
	{Name: "roll_d20", Function: rollStep("d20")},
	{Name: "roll_damage", Function: scenarioRollDamage},
	{Name: "action", Function: scenarioAction},
	{Name: "expect_error", Function: scenarioExpectError},
	{Name: "expect_fear", Function: expectInt("expect_fear")},
	{Name: "expect_total", Function: expectInt("expect_total")},
	{Name: "expect_history", Function: expectInt("expect_history")},
	{Name: "expect_outcome", Function: stringStep("expect_outcome", "outcome")},
	{Name: "expect_hope", Function: expectNamed("expect_hope")},
	{Name: "expect_hp", Function: expectNamed("expect_hp")},
	{Name: "expect_stress", Function: expectNamed("expect_stress")},
	{Name: "expect_armor", Function: expectNamed("expect_armor")},
	{Name: "expect_clock", Function: expectNamed("expect_clock")},
	{Name: "expect_spotlight", Function: scenarioExpectSpotlight},
}

func stringStep(kind, key string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		appendStep(scenario, kind, map[string]any{key: lua.CheckString(state, 2)})
		return 0
	}
}

func intAction(actionType, key string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		appendStep(scenario, "action", map[string]any{"type": actionType, key: lua.CheckInteger(state, 2)})
		return 0
	}
}

func rollStep(rollType string) lua.Function {
	return func(state *lua.State) int {
		appendStep(checkScenario(state), "roll", map[string]any{"type": rollType})
		return 0
	}
}

func characterStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		data := optionalTable(state, 3)
		data["name"] = lua.CheckString(state, 2)
		data["kind"] = kind
		appendStep(scenario, "character", data)
		return 0
	}
}

func expectInt(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		appendStep(scenario, kind, map[string]any{"value": lua.CheckInteger(state, 2)})
		return 0
	}
}

func expectNamed(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		appendStep(scenario, kind, map[string]any{
			"name":  lua.CheckString(state, 2),
			"value": lua.CheckInteger(state, 3),
		})
		return 0
	}
}

func scenarioDice(state *lua.State) int {
	scenario := checkScenario(state)
	var faces []any
	if state.TypeOf(2) == lua.TypeTable {
		if list, ok := tableToGo(state, 2).([]any); ok {
			faces = list
		}
	} else {
		for i := 2; i <= state.Top(); i++ {
			faces = append(faces, lua.CheckInteger(state, i))
		}
	}
	appendStep(scenario, "dice", map[string]any{"faces": faces})
	return 0
}

func scenarioAdvantage(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "action", map[string]any{"type": "dice.advantage", "mode": lua.CheckString(state, 2)})
	return 0
}

func scenarioHope(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "hope", map[string]any{
		"name":  lua.CheckString(state, 2),
		"delta": lua.CheckInteger(state, 3),
	})
	return 0
}

func scenarioDamage(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 4)
	data["name"] = lua.CheckString(state, 2)
	data["amount"] = lua.CheckInteger(state, 3)
	appendStep(scenario, "damage", data)
	return 0
}

func scenarioMarkArmor(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "armor", map[string]any{
		"name":  lua.CheckString(state, 2),
		"index": lua.CheckInteger(state, 3),
	})
	return 0
}

func scenarioClock(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 4)
	data["name"] = lua.CheckString(state, 2)
	data["segments"] = lua.CheckInteger(state, 3)
	appendStep(scenario, "clock", data)
	return 0
}

func scenarioTick(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "tick", map[string]any{
		"name":  lua.CheckString(state, 2),
		"delta": lua.OptInteger(state, 3, 1),
	})
	return 0
}

func scenarioRollDamage(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "roll", map[string]any{"type": "damage", "dice": lua.CheckString(state, 2)})
	return 0
}

func scenarioAction(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 3)
	data["type"] = lua.CheckString(state, 2)
	appendStep(scenario, "action", data)
	return 0
}

// scenarioExpectError marks the previous step as expected to fail with code.
func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.Errorf(state, "expect_error needs a step before it")
		return 0
	}
	scenario.Steps[len(scenario.Steps)-1].Args["expect_error"] = code
	return 0
}

func scenarioExpectSpotlight(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_spotlight", map[string]any{"name": lua.OptString(state, 2, "")})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
