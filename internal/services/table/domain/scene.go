package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultSceneLocation is used when a scene has no location.
const DefaultSceneLocation = "Unknown"

// Scene is one narrative beat of the session.
type Scene struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Notes       string       `json:"notes"`
	Details     SceneDetails `json:"details"`
	Environment Environment  `json:"environment"`
}

// SceneDetails is the keeper's prep for a scene.
type SceneDetails struct {
	Atmosphere       string        `json:"atmosphere"`
	Objectives       []string      `json:"objectives"`
	KeyRolls         []string      `json:"keyRolls"`
	NPCsPresent      []PresenceRef `json:"npcsPresent"`
	PossibleOutcomes []string      `json:"possibleOutcomes"`
	Tips             string        `json:"tips"`
}

// PresenceRef points at an NPC or monster present in a scene. Names that
// never matched a roster entry keep Kind empty and carry Name instead.
type PresenceRef struct {
	Kind Kind   `json:"type,omitempty"`
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Resolved reports whether the reference points into a roster.
func (p PresenceRef) Resolved() bool {
	return p.Kind != "" && p.ID > 0
}

// MarshalJSON writes unresolved names as plain strings.
func (p PresenceRef) MarshalJSON() ([]byte, error) {
	if !p.Resolved() {
		return json.Marshal(p.Name)
	}
	type plain struct {
		Kind Kind `json:"type"`
		ID   ID   `json:"id"`
	}
	return json.Marshal(plain{Kind: p.Kind, ID: p.ID})
}

// UnmarshalJSON reads a name string or a {type, id} object.
func (p *PresenceRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = PresenceRef{Name: strings.TrimSpace(name)}
		return nil
	}
	var raw struct {
		Kind string `json:"type"`
		ID   ID     `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, _ := ParseKind(raw.Kind)
	*p = PresenceRef{Kind: kind, ID: raw.ID, Name: raw.Name}
	return nil
}

// Layer picks one half of a scene environment.
type Layer string

const (
	LayerMacro Layer = "macro"
	LayerMicro Layer = "micro"
)

// Environment is the macro and micro environment of a scene. The JSON form
// is flat to stay readable by older saves.
type Environment struct {
	Macro     string `json:"macro,omitempty"`
	MacroTier int    `json:"macroTier,omitempty"`
	MacroDC   int    `json:"macroDC,omitempty"`
	Micro     string `json:"micro,omitempty"`
	MicroTier int    `json:"microTier,omitempty"`
	MicroDC   int    `json:"microDC,omitempty"`
	Modifier  string `json:"modifier,omitempty"`
}

// EnvironmentChoice selects an environment and tier for one layer. DC is
// the difficulty resolved from the catalog tier.
type EnvironmentChoice struct {
	ID   string
	Tier int
	DC   int
}

// Layer returns the choice stored for layer l.
func (e Environment) Layer(l Layer) (EnvironmentChoice, bool) {
	switch l {
	case LayerMacro:
		return EnvironmentChoice{ID: e.Macro, Tier: e.MacroTier, DC: e.MacroDC}, e.Macro != ""
	case LayerMicro:
		return EnvironmentChoice{ID: e.Micro, Tier: e.MicroTier, DC: e.MicroDC}, e.Micro != ""
	default:
		return EnvironmentChoice{}, false
	}
}

func (e *Environment) set(l Layer, c EnvironmentChoice) bool {
	if c.ID == "" {
		c = EnvironmentChoice{}
	}
	switch l {
	case LayerMacro:
		e.Macro, e.MacroTier, e.MacroDC = c.ID, c.Tier, c.DC
	case LayerMicro:
		e.Micro, e.MicroTier, e.MicroDC = c.ID, c.Tier, c.DC
	default:
		return false
	}
	return true
}

// SceneInput is the editable part of a scene.
type SceneInput struct {
	Name             string
	Location         string
	Notes            string
	Atmosphere       string
	Objectives       []string
	KeyRolls         []string
	PossibleOutcomes []string
	Tips             string
	Present          []PresenceRef
}

func (in SceneInput) apply(s Scene) Scene {
	s.Name = strings.TrimSpace(in.Name)
	s.Location = strings.TrimSpace(in.Location)
	if s.Location == "" {
		s.Location = DefaultSceneLocation
	}
	s.Notes = in.Notes
	s.Details.Atmosphere = in.Atmosphere
	s.Details.Objectives = nonBlank(in.Objectives)
	s.Details.KeyRolls = nonBlank(in.KeyRolls)
	s.Details.PossibleOutcomes = nonBlank(in.PossibleOutcomes)
	s.Details.Tips = in.Tips
	s.Details.NPCsPresent = append([]PresenceRef{}, in.Present...)
	return s
}

func (s Scene) normalized() Scene {
	s.Name = strings.TrimSpace(s.Name)
	if strings.TrimSpace(s.Location) == "" {
		s.Location = DefaultSceneLocation
	}
	s.Details.Objectives = nonBlank(s.Details.Objectives)
	s.Details.KeyRolls = nonBlank(s.Details.KeyRolls)
	s.Details.PossibleOutcomes = nonBlank(s.Details.PossibleOutcomes)
	if s.Details.NPCsPresent == nil {
		s.Details.NPCsPresent = []PresenceRef{}
	}
	return s
}

func (s Scene) clone() Scene {
	s.Details.Objectives = append([]string{}, s.Details.Objectives...)
	s.Details.KeyRolls = append([]string{}, s.Details.KeyRolls...)
	s.Details.PossibleOutcomes = append([]string{}, s.Details.PossibleOutcomes...)
	s.Details.NPCsPresent = append([]PresenceRef{}, s.Details.NPCsPresent...)
	return s
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
