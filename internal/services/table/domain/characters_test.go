package domain

import (
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

func TestAddCharacterDefaults(t *testing.T) {
	s, _ := newTestSession(t)
	p, err := s.AddCharacter(KindPlayer, CharacterInput{Name: " Spark "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID != 1 || p.Name != "Spark" {
		t.Fatalf("player = %+v", p)
	}
	if p.HP != 7 || p.MaxHP != 7 || p.MaxStress != 6 || p.Armor != 3 {
		t.Fatalf("vitals = %+v", p)
	}
	if p.ArmorMinor != 5 || p.ArmorSevere != 10 || p.ArmorSlots != 3 || p.Evasion != 10 {
		t.Fatalf("armor = %+v", p)
	}
	if p.Hope != StartingHope {
		t.Fatalf("hope = %d", p.Hope)
	}

	foe := mustAdd(t, s, KindNPC, "Korren")
	if foe.Hope != 0 || foe.IsAlly {
		t.Fatalf("adversary = %+v", foe)
	}
	second := mustAdd(t, s, KindPlayer, "Marcus")
	if second.ID != 2 {
		t.Fatalf("second id = %d", second.ID)
	}

	if _, err := s.AddCharacter(KindPlayer, CharacterInput{Name: "  "}); apperrors.CodeOf(err) != apperrors.CodeNameRequired {
		t.Fatalf("blank name err = %v", err)
	}
}

func TestUpdateCharacterPreservesPlayState(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Whisper")
	_ = s.AdjustHP(KindPlayer, p.ID, -1)
	_ = s.AdjustStress(KindPlayer, p.ID, 2)
	_ = s.ToggleArmorSlot(KindPlayer, p.ID, 0)
	_ = s.AdjustHope(KindPlayer, p.ID, 3)

	in := DefaultCharacterInput()
	in.Name = "Whisper Prime"
	in.MaxHP = 4
	in.ArmorSlots = 5
	if err := s.UpdateCharacter(KindPlayer, p.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	c, _ := s.Character(KindPlayer, p.ID)
	if c.Name != "Whisper Prime" || c.ID != p.ID {
		t.Fatalf("identity = %+v", c)
	}
	if c.HP != 4 || c.Stress != 2 || c.Hope != 5 {
		t.Fatalf("hp %d stress %d hope %d", c.HP, c.Stress, c.Hope)
	}
	if !reflect.DeepEqual(c.ArmorMarked, []int{2}) {
		t.Fatalf("marked = %v", c.ArmorMarked)
	}
}

func TestDeleteCharacterClearsPinAndSpotlight(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Flash")
	other := mustAdd(t, s, KindPlayer, "Shadow")
	_, _ = s.TogglePin(KindPlayer, p.ID)
	_, _ = s.TogglePin(KindPlayer, other.ID)
	_ = s.SetSpotlight(KindPlayer, p.ID)

	if err := s.DeleteCharacter(KindPlayer, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.Roster(KindPlayer)) != 1 {
		t.Fatalf("roster = %d", len(s.Roster(KindPlayer)))
	}
	if !reflect.DeepEqual(s.Pins().Players, []ID{other.ID}) {
		t.Fatalf("pins = %v", s.Pins().Players)
	}
	if _, ok := s.Spotlight(); ok {
		t.Fatal("spotlight should be cleared")
	}
	if err := s.DeleteCharacter(KindPlayer, p.ID); apperrors.CodeOf(err) != apperrors.CodeCharacterNotFound {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestToggleAlly(t *testing.T) {
	s, _ := newTestSession(t)
	n := mustAdd(t, s, KindNPC, "Milo")

	if err := s.ToggleAlly(n.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	c, _ := s.Character(KindNPC, n.ID)
	if !c.IsAlly || c.Hope != StartingHope {
		t.Fatalf("ally = %+v", c)
	}
	_ = s.AdjustHope(KindNPC, n.ID, 2)
	if err := s.ToggleAlly(n.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	c, _ = s.Character(KindNPC, n.ID)
	if c.IsAlly || c.Hope != 0 {
		t.Fatalf("adversary = %+v", c)
	}
	if err := s.ToggleAlly(99); apperrors.CodeOf(err) != apperrors.CodeCharacterNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestVitalsClamp(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Marcus")
	_ = s.AdjustHP(KindPlayer, p.ID, -20)
	_ = s.AdjustStress(KindPlayer, p.ID, 20)
	c, _ := s.Character(KindPlayer, p.ID)
	if c.HP != 0 || c.Stress != c.MaxStress {
		t.Fatalf("hp %d stress %d", c.HP, c.Stress)
	}
	_ = s.AdjustHP(KindPlayer, p.ID, 50)
	c, _ = s.Character(KindPlayer, p.ID)
	if c.HP != c.MaxHP {
		t.Fatalf("hp = %d", c.HP)
	}
}

func TestQuickNoteAndHidden(t *testing.T) {
	s, _ := newTestSession(t)
	m := mustAdd(t, s, KindMonster, "Lurker")
	_ = s.SetQuickNote(KindMonster, m.ID, " bleeding ")
	_ = s.ToggleHidden(KindMonster, m.ID)
	c, _ := s.Character(KindMonster, m.ID)
	if c.QuickNote != "bleeding" || !c.Hidden {
		t.Fatalf("monster = %+v", c)
	}
}

func TestTogglePin(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Spark")
	pinned, err := s.TogglePin(KindPlayer, p.ID)
	if err != nil || !pinned {
		t.Fatalf("pin = %v %v", pinned, err)
	}
	pinned, _ = s.TogglePin(KindPlayer, p.ID)
	if pinned || len(s.Pins().Players) != 0 {
		t.Fatalf("unpin left %v", s.Pins().Players)
	}
}

func TestPinAllAndClearPins(t *testing.T) {
	tests := []struct {
		kind  Kind
		names []string
	}{
		{kind: KindNPC, names: []string{"Milo", "Ria", "Dex"}},
		{kind: KindPlayer, names: []string{"Spark"}},
		{kind: KindMonster, names: nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, _ := newTestSession(t)
			var want []ID
			for _, name := range tt.names {
				want = append(want, mustAdd(t, s, tt.kind, name).ID)
			}
			if len(want) > 0 {
				_, _ = s.TogglePin(tt.kind, want[0])
			}

			got := s.PinAll(tt.kind)
			if len(got) != len(want) {
				t.Fatalf("pinned = %v, want %v", got, want)
			}
			for _, id := range want {
				if !s.Pins().Has(tt.kind, id) {
					t.Fatalf("id %d not pinned", id)
				}
			}
			if n := len(*s.doc.DashboardPins.list(tt.kind)); n != len(want) {
				t.Fatalf("pins = %d, want %d without duplicates", n, len(want))
			}

			s.ClearPins(tt.kind)
			if n := len(*s.doc.DashboardPins.list(tt.kind)); n != 0 {
				t.Fatalf("pins after clear = %d", n)
			}
		})
	}
}

func TestClearPinsLeavesOtherRosters(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Spark")
	mustAdd(t, s, KindNPC, "Milo")
	_, _ = s.TogglePin(KindPlayer, p.ID)
	s.PinAll(KindNPC)

	s.ClearPins(KindNPC)
	if !reflect.DeepEqual(s.Pins().Players, []ID{p.ID}) {
		t.Fatalf("player pins = %v", s.Pins().Players)
	}
	if len(s.Pins().NPCs) != 0 {
		t.Fatalf("npc pins = %v", s.Pins().NPCs)
	}
}

func TestAbilities(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Spark")
	m := mustAdd(t, s, KindMonster, "Drone")

	if err := s.AddAbility(KindPlayer, p.ID, Ability{Name: "Scrap Genius", Cost: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddAbility(KindPlayer, p.ID, Ability{Name: ""}); apperrors.CodeOf(err) != apperrors.CodeNameRequired {
		t.Fatalf("blank ability err = %v", err)
	}
	c, _ := s.Character(KindPlayer, p.ID)
	if c.Abilities[0].Desc != DefaultAbilityDescription || c.Abilities[0].Category != CategoryAction {
		t.Fatalf("ability = %+v", c.Abilities[0])
	}

	_, err := s.UseAbility(KindPlayer, p.ID, 0)
	if apperrors.CodeOf(err) != apperrors.CodeInsufficientHope {
		t.Fatalf("use with 2 hope err = %v", err)
	}
	_ = s.AdjustHope(KindPlayer, p.ID, 1)
	use, err := s.UseAbility(KindPlayer, p.ID, 0)
	if err != nil || use.Resource != ResourceHope || use.Spent != 3 {
		t.Fatalf("use = %+v %v", use, err)
	}
	c, _ = s.Character(KindPlayer, p.ID)
	if c.Hope != 0 {
		t.Fatalf("hope = %d", c.Hope)
	}

	_ = s.AddAbility(KindMonster, m.ID, Ability{Name: "Overload", Cost: 2, Category: CategoryReaction})
	_ = s.AddAbility(KindMonster, m.ID, Ability{Name: "Hover", Category: CategoryPassive})
	s.AdjustFear(1)
	if _, err := s.UseAbility(KindMonster, m.ID, 0); apperrors.CodeOf(err) != apperrors.CodeInsufficientFear {
		t.Fatalf("fear ability err = %v", err)
	}
	if s.Fear() != 1 {
		t.Fatalf("fear = %d", s.Fear())
	}
	use, err = s.UseAbility(KindMonster, m.ID, 1)
	if err != nil || use.Spent != 0 || s.Fear() != 1 {
		t.Fatalf("free ability = %+v %v fear %d", use, err, s.Fear())
	}
	s.AdjustFear(1)
	if _, err := s.UseAbility(KindMonster, m.ID, 0); err != nil || s.Fear() != 0 {
		t.Fatalf("fear ability: err %v fear %d", err, s.Fear())
	}

	if err := s.UpdateAbility(KindMonster, m.ID, 1, Ability{Name: "Hover Jets", Desc: "flies"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteAbility(KindMonster, m.ID, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, _ = s.Character(KindMonster, m.ID)
	if len(c.Abilities) != 1 || c.Abilities[0].Name != "Hover Jets" {
		t.Fatalf("abilities = %+v", c.Abilities)
	}
	if err := s.DeleteAbility(KindMonster, m.ID, 4); apperrors.CodeOf(err) != apperrors.CodeAbilityNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestBestiaryAdd(t *testing.T) {
	s, _ := newTestSession(t)
	template := Character{
		ID:          77,
		Name:        "Data-Ghost",
		HP:          1,
		MaxHP:       3,
		Stress:      2,
		MaxStress:   2,
		ArmorSlots:  2,
		ArmorMarked: []int{1},
		Abilities:   []Ability{{Name: "Glitch", Cost: 1, Category: CategoryAction, Desc: "x"}},
	}
	c := s.AddFromBestiary(template)
	if c.ID != 1 || c.HP != 3 || c.Stress != 0 || len(c.ArmorMarked) != 0 || c.Hidden {
		t.Fatalf("added = %+v", c)
	}
	if !s.Pins().Has(KindMonster, c.ID) {
		t.Fatal("bestiary add should pin")
	}
	template.Abilities[0].Name = "Mutated"
	got, _ := s.Character(KindMonster, c.ID)
	if got.Abilities[0].Name != "Glitch" {
		t.Fatal("added monster shares abilities with the template")
	}

	all := s.AddAllFromBestiary([]Character{template, template})
	if len(all) != 2 || all[0].ID != 2 || all[1].ID != 3 || !all[0].Hidden {
		t.Fatalf("add all = %+v", all)
	}
	if s.Pins().Has(KindMonster, all[0].ID) {
		t.Fatal("add all should not pin")
	}
}
