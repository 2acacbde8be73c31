package domain

import (
	"strings"
)

// Roster returns a copy of the characters in roster k.
func (s *Session) Roster(k Kind) []Character {
	list := s.doc.Roster(k)
	out := make([]Character, len(list))
	for i, c := range list {
		out[i] = c.clone()
	}
	return out
}

// Character returns a copy of one character.
func (s *Session) Character(k Kind, id ID) (Character, error) {
	c, err := s.character(k, id)
	if err != nil {
		return Character{}, err
	}
	return c.clone(), nil
}

func (s *Session) character(k Kind, id ID) (*Character, error) {
	list := s.doc.roster(k)
	if list == nil {
		return nil, characterNotFound(k, id)
	}
	for i := range *list {
		if (*list)[i].ID == id {
			return &(*list)[i], nil
		}
	}
	return nil, characterNotFound(k, id)
}

func (s *Session) nextCharacterID(k Kind) ID {
	list := s.doc.Roster(k)
	ids := make([]ID, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return nextID(ids)
}

// AddCharacter creates a sheet in roster k. Missing numbers take the
// add-character defaults; players and allies start with two Hope.
func (s *Session) AddCharacter(k Kind, in CharacterInput) (Character, error) {
	list := s.doc.roster(k)
	if list == nil {
		return Character{}, characterNotFound(k, 0)
	}
	name, err := requireName(in.Name)
	if err != nil {
		return Character{}, err
	}
	in = in.withDefaults()
	in.Name = name
	c := in.apply(Character{ID: s.nextCharacterID(k)})
	c.HP = c.MaxHP
	c.IsAlly = k == KindNPC && in.IsAlly
	if RoleOf(k, c).HasHope() {
		c.Hope = StartingHope
	}
	c = c.normalized(k)
	*list = append(*list, c)
	return c.clone(), nil
}

// UpdateCharacter rewrites the editable fields of a sheet. Current HP is
// clamped to the new maximum; stress, marked slots, hope and abilities are
// kept.
func (s *Session) UpdateCharacter(k Kind, id ID, in CharacterInput) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return err
	}
	in = in.withDefaults()
	in.Name = name
	*c = in.apply(*c).normalized(k)
	return nil
}

// DeleteCharacter removes a sheet, its pin and the spotlight on it.
func (s *Session) DeleteCharacter(k Kind, id ID) error {
	if _, err := s.character(k, id); err != nil {
		return err
	}
	list := s.doc.roster(k)
	kept := make([]Character, 0, len(*list))
	for _, c := range *list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	*list = kept
	pins := s.doc.DashboardPins.list(k)
	*pins = removeID(*pins, id)
	if s.spotlight != nil && s.spotlight.Kind == k && s.spotlight.ID == id {
		s.spotlight = nil
	}
	return nil
}

// ToggleHidden flips a character's visibility to players.
func (s *Session) ToggleHidden(k Kind, id ID) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	c.Hidden = !c.Hidden
	return nil
}

// ToggleAlly moves an NPC between ally and adversary. A new ally with no
// Hope starts with two; an NPC leaving the party loses its Hope.
func (s *Session) ToggleAlly(id ID) error {
	c, err := s.character(KindNPC, id)
	if err != nil {
		return err
	}
	c.IsAlly = !c.IsAlly
	if c.IsAlly {
		if c.Hope == 0 {
			c.Hope = StartingHope
		}
	} else {
		c.Hope = 0
	}
	return nil
}

// SetQuickNote replaces a character's quick note.
func (s *Session) SetQuickNote(k Kind, id ID, note string) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	c.QuickNote = strings.TrimSpace(note)
	return nil
}

// AdjustHP changes current HP within [0, MaxHP].
func (s *Session) AdjustHP(k Kind, id ID, delta int) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	c.HP = clamp(c.HP+delta, 0, c.MaxHP)
	return nil
}

// AdjustStress changes stress within [0, MaxStress].
func (s *Session) AdjustStress(k Kind, id ID, delta int) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	c.Stress = clamp(c.Stress+delta, 0, c.MaxStress)
	return nil
}

// ToggleArmorSlot applies one click on armor slot index.
func (s *Session) ToggleArmorSlot(k Kind, id ID, index int) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	c.ArmorMarked = ToggleSlot(c.ArmorMarked, c.ArmorSlots, index)
	return nil
}

// ApplyDamage marks HP for a hit of amount. With useArmor and a free slot,
// the top slot is marked and severity drops one tier.
func (s *Session) ApplyDamage(k Kind, id ID, amount int, useArmor bool) (DamageApplication, error) {
	c, err := s.character(k, id)
	if err != nil {
		return DamageApplication{}, err
	}
	result := EvaluateDamage(amount, c.ArmorMinor, c.ArmorSevere)
	spent := 0
	if useArmor && result.Marks > 0 {
		if marked, ok := MarkTopSlot(c.ArmorMarked, c.ArmorSlots); ok {
			c.ArmorMarked = marked
			result = ReduceDamageWithArmor(result)
			spent = 1
		}
	}
	before, after := ApplyDamageMarks(c.HP, result.Marks)
	c.HP = after
	return DamageApplication{
		Amount:     amount,
		Result:     result,
		HPBefore:   before,
		HPAfter:    after,
		ArmorSpent: spent,
	}, nil
}

// TogglePin pins or unpins a character on the dashboard and reports the
// new state.
func (s *Session) TogglePin(k Kind, id ID) (bool, error) {
	if _, err := s.character(k, id); err != nil {
		return false, err
	}
	pins := s.doc.DashboardPins.list(k)
	if s.doc.DashboardPins.Has(k, id) {
		*pins = removeID(*pins, id)
		return false, nil
	}
	*pins = append(*pins, id)
	return true, nil
}

// PinAll pins every character of roster k in roster order and returns the
// pinned ids.
func (s *Session) PinAll(k Kind) []ID {
	list := s.doc.Roster(k)
	ids := make([]ID, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	pins := s.doc.DashboardPins.list(k)
	if pins == nil {
		return nil
	}
	*pins = append([]ID(nil), ids...)
	return ids
}

// ClearPins unpins every character of roster k.
func (s *Session) ClearPins(k Kind) {
	if pins := s.doc.DashboardPins.list(k); pins != nil {
		*pins = []ID{}
	}
}

// Pins returns a copy of the dashboard pins.
func (s *Session) Pins() Pins {
	return s.doc.DashboardPins.clone()
}

// AddFromBestiary instantiates a monster template at full health with a
// fresh id and pins it.
func (s *Session) AddFromBestiary(template Character) Character {
	c := s.instantiate(template)
	s.doc.Monsters = append(s.doc.Monsters, c)
	s.doc.DashboardPins.Monsters = append(s.doc.DashboardPins.Monsters, c.ID)
	return c.clone()
}

// AddAllFromBestiary instantiates every template hidden and unpinned.
func (s *Session) AddAllFromBestiary(templates []Character) []Character {
	added := make([]Character, 0, len(templates))
	for _, template := range templates {
		c := s.instantiate(template)
		c.Hidden = true
		s.doc.Monsters = append(s.doc.Monsters, c)
		added = append(added, c.clone())
	}
	return added
}

func (s *Session) instantiate(template Character) Character {
	c := template.clone()
	c.ID = s.nextCharacterID(KindMonster)
	c.HP = c.MaxHP
	c.Stress = 0
	c.ArmorMarked = []int{}
	c.QuickNote = ""
	return c.normalized(KindMonster)
}

func removeID(ids []ID, id ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
