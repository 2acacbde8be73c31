package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/platform/errors/i18n"
	"github.com/louisbranch/voidlight/internal/platform/timeouts"
	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// ActionInput carries one table action.
type ActionInput struct {
	Action app.Action `json:"action" jsonschema:"table action; type selects the operation (see list_actions)"`
}

// ActionResult reports an applied action.
type ActionResult struct {
	Action  string `json:"action" jsonschema:"action type that was applied"`
	Version uint64 `json:"version" jsonschema:"session version after the action"`
	Value   string `json:"value,omitempty" jsonschema:"JSON encoded action result"`
}

// ListActionsInput takes no arguments.
type ListActionsInput struct{}

// ListActionsResult names every action table_action accepts.
type ListActionsResult struct {
	Actions []string `json:"actions" jsonschema:"accepted action types"`
}

// RollDualityInput takes no arguments; the roller settings apply.
type RollDualityInput struct{}

// RollDamageInput names a damage expression.
type RollDamageInput struct {
	Dice string `json:"dice" jsonschema:"damage dice such as 2d6+1"`
}

// RollResult is one entry of the roll history.
type RollResult struct {
	Type       string `json:"type" jsonschema:"duality, d20 or damage"`
	Total      int    `json:"total" jsonschema:"roll total with modifiers"`
	Hope       int    `json:"hope,omitempty" jsonschema:"hope die"`
	Fear       int    `json:"fear,omitempty" jsonschema:"fear die"`
	Dice       string `json:"dice,omitempty" jsonschema:"damage dice rolled"`
	Rolls      []int  `json:"rolls,omitempty" jsonschema:"individual damage dice"`
	Difficulty int    `json:"difficulty,omitempty" jsonschema:"difficulty checked against"`
	Outcome    string `json:"outcome,omitempty" jsonschema:"duality outcome"`
	Timestamp  string `json:"timestamp" jsonschema:"roll time"`
}

// AdjustFearInput moves the keeper's Fear.
type AdjustFearInput struct {
	Delta int `json:"delta" jsonschema:"fear change, negative to remove"`
}

// FearResult reports the Fear pool.
type FearResult struct {
	Fear    int    `json:"fear" jsonschema:"current fear"`
	MaxFear int    `json:"max_fear" jsonschema:"fear cap"`
	Version uint64 `json:"version" jsonschema:"session version after the change"`
}

// BestiarySearchInput filters the bestiary.
type BestiarySearchInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"AIP-160 filter over name, type, tier, hp and evasion"`
}

// BestiaryEntry summarizes one monster template.
type BestiaryEntry struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Tier    int    `json:"tier"`
	HP      int    `json:"hp"`
	Evasion int    `json:"evasion"`
}

// BestiarySearchResult lists matching monsters.
type BestiarySearchResult struct {
	Monsters []BestiaryEntry `json:"monsters"`
}

func registerTools(server *mcp.Server, controller *app.Controller) {
	mcp.AddTool(server, TableActionTool(), TableActionHandler(controller))
	mcp.AddTool(server, ListActionsTool(), ListActionsHandler())
	mcp.AddTool(server, RollDualityTool(), RollDualityHandler(controller))
	mcp.AddTool(server, RollDamageTool(), RollDamageHandler(controller))
	mcp.AddTool(server, AdjustFearTool(), AdjustFearHandler(controller))
	mcp.AddTool(server, BestiarySearchTool(), BestiarySearchHandler(controller))
}

// TableActionTool defines the generic action tool.
func TableActionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "table_action",
		Description: "Applies one action to the table session",
	}
}

// TableActionHandler dispatches any table action.
func TableActionHandler(controller *app.Controller) mcp.ToolHandlerFor[ActionInput, ActionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionInput) (*mcp.CallToolResult, ActionResult, error) {
		res, err := dispatch(ctx, controller, input.Action)
		if err != nil {
			return nil, ActionResult{}, err
		}
		result := ActionResult{Action: res.Action, Version: res.Version}
		if res.Value != nil {
			data, err := json.Marshal(res.Value)
			if err != nil {
				return nil, ActionResult{}, fmt.Errorf("marshal action value: %w", err)
			}
			result.Value = string(data)
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// ListActionsTool defines the action catalog tool.
func ListActionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_actions",
		Description: "Lists the action types table_action accepts",
	}
}

// ListActionsHandler returns the sorted action types.
func ListActionsHandler() mcp.ToolHandlerFor[ListActionsInput, ListActionsResult] {
	return func(context.Context, *mcp.CallToolRequest, ListActionsInput) (*mcp.CallToolResult, ListActionsResult, error) {
		actions := app.ActionTypes()
		sort.Strings(actions)
		return &mcp.CallToolResult{}, ListActionsResult{Actions: actions}, nil
	}
}

// RollDualityTool defines the duality roll tool.
func RollDualityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_duality",
		Description: "Rolls the Hope and Fear dice with the current roller settings",
	}
}

// RollDualityHandler rolls duality dice on the table.
func RollDualityHandler(controller *app.Controller) mcp.ToolHandlerFor[RollDualityInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ RollDualityInput) (*mcp.CallToolResult, RollResult, error) {
		res, err := dispatch(ctx, controller, app.Action{Type: "dice.duality"})
		if err != nil {
			return nil, RollResult{}, err
		}
		return &mcp.CallToolResult{}, rollResult(res.Value.(domain.RollRecord)), nil
	}
}

// RollDamageTool defines the damage roll tool.
func RollDamageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_damage",
		Description: "Rolls a damage expression plus the roller modifier",
	}
}

// RollDamageHandler rolls damage on the table.
func RollDamageHandler(controller *app.Controller) mcp.ToolHandlerFor[RollDamageInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDamageInput) (*mcp.CallToolResult, RollResult, error) {
		res, err := dispatch(ctx, controller, app.Action{Type: "dice.damage", Dice: input.Dice})
		if err != nil {
			return nil, RollResult{}, err
		}
		return &mcp.CallToolResult{}, rollResult(res.Value.(domain.RollRecord)), nil
	}
}

func rollResult(r domain.RollRecord) RollResult {
	return RollResult{
		Type:       string(r.Type),
		Total:      r.Total,
		Hope:       r.Hope,
		Fear:       r.Fear,
		Dice:       r.Dice,
		Rolls:      r.Rolls,
		Difficulty: r.Difficulty,
		Outcome:    string(r.Outcome),
		Timestamp:  r.Timestamp,
	}
}

// AdjustFearTool defines the fear tool.
func AdjustFearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "adjust_fear",
		Description: "Adds or removes keeper Fear, clamped to the track",
	}
}

// AdjustFearHandler moves the Fear pool.
func AdjustFearHandler(controller *app.Controller) mcp.ToolHandlerFor[AdjustFearInput, FearResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdjustFearInput) (*mcp.CallToolResult, FearResult, error) {
		res, err := dispatch(ctx, controller, app.Action{Type: "fear.adjust", Delta: input.Delta})
		if err != nil {
			return nil, FearResult{}, err
		}
		return &mcp.CallToolResult{}, FearResult{Fear: res.Value.(int), MaxFear: domain.MaxFear, Version: res.Version}, nil
	}
}

// BestiarySearchTool defines the bestiary search tool.
func BestiarySearchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "bestiary_search",
		Description: "Searches monster templates with a filter such as `tier = 2 AND hp > 10`",
	}
}

// BestiarySearchHandler filters the bestiary without touching the session.
func BestiarySearchHandler(controller *app.Controller) mcp.ToolHandlerFor[BestiarySearchInput, BestiarySearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BestiarySearchInput) (*mcp.CallToolResult, BestiarySearchResult, error) {
		res, err := dispatch(ctx, controller, app.Action{Type: "bestiary.search", Text: input.Filter})
		if err != nil {
			return nil, BestiarySearchResult{}, err
		}
		entries := res.Value.([]catalog.Entry)
		result := BestiarySearchResult{Monsters: make([]BestiaryEntry, 0, len(entries))}
		for _, e := range entries {
			result.Monsters = append(result.Monsters, BestiaryEntry{
				Name:    e.Monster.Name,
				Type:    e.Monster.Type,
				Tier:    e.Tier,
				HP:      e.Monster.MaxHP,
				Evasion: e.Monster.Evasion,
			})
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// dispatch runs a under the action timeout and renders domain failures as
// readable tool errors.
func dispatch(ctx context.Context, controller *app.Controller, a app.Action) (app.Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeouts.Action)
	defer cancel()
	res, err := controller.Dispatch(runCtx, a)
	if err != nil {
		return app.Result{}, fmt.Errorf("%s: %s", apperrors.CodeOf(err), apperrors.UserMessage(err, i18n.BaseLocale))
	}
	return res, nil
}
