package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Category is how an ability is used at the table.
type Category string

const (
	CategoryAction   Category = "Action"
	CategoryReaction Category = "Reaction"
	CategoryPassive  Category = "Passive"
)

// DefaultAbilityDescription fills abilities saved without one.
const DefaultAbilityDescription = "No description"

// ParseCategory maps free text to a category, defaulting to Action.
func ParseCategory(text string) Category {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "reaction":
		return CategoryReaction
	case "passive":
		return CategoryPassive
	default:
		return CategoryAction
	}
}

// Ability is a named move on a character sheet. The resource Cost refers to
// comes from the owner's role.
type Ability struct {
	Name     string   `json:"name"`
	Category Category `json:"type"`
	Cost     int      `json:"cost"`
	Desc     string   `json:"desc"`
}

var legacyAbilityCost = regexp.MustCompile(`^(.*?)\s*\((\d+)\s*(?i:hope|fear)\)\s*$`)

// UnmarshalJSON reads either the object form or the legacy string form
// "Name (N Hope)". Monster abilities may carry their cost as fearCost.
func (a *Ability) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*a = parseLegacyAbility(text)
		return nil
	}
	var raw struct {
		Name     string       `json:"name"`
		Type     string       `json:"type"`
		Cost     *json.Number `json:"cost"`
		FearCost *json.Number `json:"fearCost"`
		Desc     *string      `json:"desc"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cost := raw.Cost
	if cost == nil {
		cost = raw.FearCost
	}
	*a = Ability{
		Name:     raw.Name,
		Category: ParseCategory(raw.Type),
		Cost:     numberToInt(cost),
		Desc:     DefaultAbilityDescription,
	}
	if raw.Desc != nil && strings.TrimSpace(*raw.Desc) != "" {
		a.Desc = *raw.Desc
	}
	return nil
}

func parseLegacyAbility(text string) Ability {
	text = strings.TrimSpace(text)
	ability := Ability{
		Name:     text,
		Category: CategoryPassive,
		Desc:     DefaultAbilityDescription,
	}
	if m := legacyAbilityCost.FindStringSubmatch(text); m != nil {
		cost, _ := strconv.Atoi(m[2])
		ability.Name = m[1]
		ability.Cost = cost
		ability.Category = CategoryAction
	}
	return ability
}

func numberToInt(n *json.Number) int {
	if n == nil {
		return 0
	}
	f, err := n.Float64()
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func (a Ability) normalized() Ability {
	a.Name = strings.TrimSpace(a.Name)
	if a.Category == "" {
		a.Category = CategoryAction
	} else {
		a.Category = ParseCategory(string(a.Category))
	}
	if a.Cost < 0 {
		a.Cost = 0
	}
	if strings.TrimSpace(a.Desc) == "" {
		a.Desc = DefaultAbilityDescription
	}
	return a
}
