package domain

import (
	"encoding/json"
	"strings"
)

const (
	// MaxPlayerHope caps player Hope.
	MaxPlayerHope = 10
	// MaxAllyHope caps allied NPC Hope.
	MaxAllyHope = 5
	// StartingHope is granted to new players and to NPCs joining the party.
	StartingHope = 2
)

// Character is one sheet in any roster. Role-specific fields stay zero when
// the role does not use them.
type Character struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Type        string    `json:"type,omitempty"`
	HP          int       `json:"hp"`
	MaxHP       int       `json:"maxHp"`
	Stress      int       `json:"stress"`
	MaxStress   int       `json:"maxStress"`
	Hope        int       `json:"hope,omitempty"`
	Armor       int       `json:"armor"`
	ArmorMinor  int       `json:"armorMinor"`
	ArmorSevere int       `json:"armorSevere"`
	ArmorSlots  int       `json:"armorSlots"`
	ArmorMarked []int     `json:"armorMarked"`
	Evasion     int       `json:"evasion"`
	Hidden      bool      `json:"hidden"`
	IsAlly      bool      `json:"isAlly,omitempty"`
	Description string    `json:"description,omitempty"`
	KeeperNotes string    `json:"keeperNotes,omitempty"`
	QuickNote   string    `json:"quickNote,omitempty"`
	Abilities   []Ability `json:"abilities"`
	Equipment   string    `json:"equipment,omitempty"`
	Behavior    string    `json:"behavior,omitempty"`
}

// UnmarshalJSON fills the slot count before decoding so sheets without
// armorSlots get the default.
func (c *Character) UnmarshalJSON(data []byte) error {
	type plain Character
	decoded := plain{ArmorSlots: DefaultArmorSlots}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Character(decoded)
	return nil
}

// normalized clamps vitals and drops fields the role cannot hold.
func (c Character) normalized(k Kind) Character {
	c.Name = strings.TrimSpace(c.Name)
	if c.MaxHP < 0 {
		c.MaxHP = 0
	}
	if c.MaxStress < 0 {
		c.MaxStress = 0
	}
	c.HP = clamp(c.HP, 0, c.MaxHP)
	c.Stress = clamp(c.Stress, 0, c.MaxStress)
	if c.ArmorSlots < 0 {
		c.ArmorSlots = 0
	}
	c.ArmorMarked = normalizeMarked(c.ArmorMarked, c.ArmorSlots)
	if k != KindNPC {
		c.IsAlly = false
	}
	role := RoleOf(k, c)
	c.Hope = clamp(c.Hope, 0, role.HopeCap())
	if k != KindPlayer {
		c.Equipment = ""
	}
	if k != KindMonster {
		c.Behavior = ""
	}
	abilities := make([]Ability, 0, len(c.Abilities))
	for _, a := range c.Abilities {
		abilities = append(abilities, a.normalized())
	}
	c.Abilities = abilities
	return c
}

// clone returns a copy sharing no slices with c.
func (c Character) clone() Character {
	c.ArmorMarked = append([]int{}, c.ArmorMarked...)
	c.Abilities = append([]Ability{}, c.Abilities...)
	return c
}

// ArmorRemaining counts unmarked slots.
func (c Character) ArmorRemaining() int {
	return c.ArmorSlots - len(c.ArmorMarked)
}

// CharacterInput is the editable part of a sheet.
type CharacterInput struct {
	Name        string
	Subtitle    string
	Type        string
	MaxHP       int
	MaxStress   int
	Armor       int
	ArmorMinor  int
	ArmorSevere int
	ArmorSlots  int
	Evasion     int
	Description string
	KeeperNotes string
	Equipment   string
	Behavior    string
	IsAlly      bool
	Hidden      bool
}

// DefaultCharacterInput is the add-character form before any edit.
func DefaultCharacterInput() CharacterInput {
	return CharacterInput{
		MaxHP:       7,
		MaxStress:   6,
		Armor:       3,
		ArmorMinor:  5,
		ArmorSevere: 10,
		ArmorSlots:  3,
		Evasion:     10,
	}
}

// withDefaults replaces non-positive numbers with the add-character
// defaults.
func (in CharacterInput) withDefaults() CharacterInput {
	d := DefaultCharacterInput()
	in.Name = strings.TrimSpace(in.Name)
	if in.MaxHP <= 0 {
		in.MaxHP = d.MaxHP
	}
	if in.MaxStress <= 0 {
		in.MaxStress = d.MaxStress
	}
	if in.Armor <= 0 {
		in.Armor = d.Armor
	}
	if in.ArmorMinor <= 0 {
		in.ArmorMinor = d.ArmorMinor
	}
	if in.ArmorSevere <= 0 {
		in.ArmorSevere = d.ArmorSevere
	}
	if in.ArmorSlots <= 0 {
		in.ArmorSlots = d.ArmorSlots
	}
	if in.Evasion <= 0 {
		in.Evasion = d.Evasion
	}
	return in
}

// apply writes the editable fields onto c, keeping id, current hp (clamped),
// stress, marked slots, hope and abilities.
func (in CharacterInput) apply(c Character) Character {
	c.Name = in.Name
	c.Subtitle = in.Subtitle
	c.Type = in.Type
	c.MaxHP = in.MaxHP
	c.MaxStress = in.MaxStress
	c.Armor = in.Armor
	c.ArmorMinor = in.ArmorMinor
	c.ArmorSevere = in.ArmorSevere
	c.ArmorSlots = in.ArmorSlots
	c.Evasion = in.Evasion
	c.Description = in.Description
	c.KeeperNotes = in.KeeperNotes
	c.Equipment = in.Equipment
	c.Behavior = in.Behavior
	c.Hidden = in.Hidden
	return c
}
