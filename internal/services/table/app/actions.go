package app

import (
	"strconv"

	"github.com/louisbranch/voidlight/internal/core/dice"
	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Action is one table operation as sent by a client. Type selects the
// operation; the other fields are its arguments.
type Action struct {
	Type        string                 `json:"type"`
	Kind        string                 `json:"kind,omitempty"`
	ID          domain.ID              `json:"id,omitempty"`
	Index       int                    `json:"index,omitempty"`
	Delta       int                    `json:"delta,omitempty"`
	Amount      int                    `json:"amount,omitempty"`
	Value       int                    `json:"value,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Text        string                 `json:"text,omitempty"`
	Segments    int                    `json:"segments,omitempty"`
	Hidden      bool                   `json:"hidden,omitempty"`
	UseArmor    bool                   `json:"useArmor,omitempty"`
	Dice        string                 `json:"dice,omitempty"`
	Mode        string                 `json:"mode,omitempty"`
	Layer       string                 `json:"layer,omitempty"`
	Environment string                 `json:"environment,omitempty"`
	Tier        int                    `json:"tier,omitempty"`
	Template    string                 `json:"template,omitempty"`
	Monster     string                 `json:"monster,omitempty"`
	Move        string                 `json:"move,omitempty"`
	Slot        string                 `json:"slot,omitempty"`
	Character   *domain.CharacterInput `json:"character,omitempty"`
	Scene       *domain.SceneInput     `json:"scene,omitempty"`
	Ability     *domain.Ability        `json:"ability,omitempty"`
	Present     []domain.PresenceRef   `json:"present,omitempty"`
}

type handler struct {
	mutates bool
	run     func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error)
}

func mutate(fn func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error)) handler {
	return handler{mutates: true, run: fn}
}

func read(fn func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error)) handler {
	return handler{run: fn}
}

// ActionTypes lists every action Dispatch accepts, slot actions included.
func ActionTypes() []string {
	out := make([]string, 0, len(handlers)+len(slotActions))
	for name := range handlers {
		out = append(out, name)
	}
	return append(out, slotActions...)
}

var slotActions = []string{"slot.list", "slot.save", "slot.load", "slot.delete", "slot.activate"}

var handlers = map[string]handler{
	"session.rename": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.Rename(a.Name)
	}),
	"session.reset": mutate(func(_ *catalog.Catalog, s *domain.Session, _ Action) (any, error) {
		s.Reset()
		return nil, nil
	}),
	"session.template": mutate(func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		t, err := cat.Template(a.Template)
		if err != nil {
			return nil, err
		}
		s.ResetTo(t.Document)
		return t.Name, nil
	}),
	"notes.set": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		s.SetNotes(a.Text)
		return nil, nil
	}),
	"notes.clear": mutate(func(_ *catalog.Catalog, s *domain.Session, _ Action) (any, error) {
		s.ClearNotes()
		return nil, nil
	}),

	"fear.adjust": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		s.AdjustFear(a.Delta)
		return s.Fear(), nil
	}),
	"fear.spend": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		have := s.Fear()
		if !s.SpendFear(a.Amount) {
			return nil, apperrors.WithMetadata(apperrors.CodeInsufficientFear, "not enough fear", map[string]string{
				"Have": strconv.Itoa(have),
				"Need": strconv.Itoa(a.Amount),
			})
		}
		return s.Fear(), nil
	}),
	"hope.adjust": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.AdjustHope(k, a.ID, a.Delta)
	})),
	"spotlight.set": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.SetSpotlight(k, a.ID)
	})),
	"spotlight.clear": mutate(func(_ *catalog.Catalog, s *domain.Session, _ Action) (any, error) {
		s.ClearSpotlight()
		return nil, nil
	}),

	"character.add": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return s.AddCharacter(k, characterInput(a))
	})),
	"character.update": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		if a.Character == nil {
			return nil, missing("character")
		}
		return nil, s.UpdateCharacter(k, a.ID, *a.Character)
	})),
	"character.delete": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.DeleteCharacter(k, a.ID)
	})),
	"character.hide": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.ToggleHidden(k, a.ID)
	})),
	"character.ally": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.ToggleAlly(a.ID)
	}),
	"character.note": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.SetQuickNote(k, a.ID, a.Text)
	})),
	"character.hp": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.AdjustHP(k, a.ID, a.Delta)
	})),
	"character.stress": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.AdjustStress(k, a.ID, a.Delta)
	})),
	"character.armor": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.ToggleArmorSlot(k, a.ID, a.Index)
	})),
	"character.damage": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return s.ApplyDamage(k, a.ID, a.Amount, a.UseArmor)
	})),
	"character.pin": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return s.TogglePin(k, a.ID)
	})),
	"character.pinAll": mutate(withKind(func(s *domain.Session, k domain.Kind, _ Action) (any, error) {
		return s.PinAll(k), nil
	})),
	"character.unpinAll": mutate(withKind(func(s *domain.Session, k domain.Kind, _ Action) (any, error) {
		s.ClearPins(k)
		return nil, nil
	})),

	"ability.add": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		if a.Ability == nil {
			return nil, missing("ability")
		}
		return nil, s.AddAbility(k, a.ID, *a.Ability)
	})),
	"ability.update": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		if a.Ability == nil {
			return nil, missing("ability")
		}
		return nil, s.UpdateAbility(k, a.ID, a.Index, *a.Ability)
	})),
	"ability.delete": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return nil, s.DeleteAbility(k, a.ID, a.Index)
	})),
	"ability.use": mutate(withKind(func(s *domain.Session, k domain.Kind, a Action) (any, error) {
		return s.UseAbility(k, a.ID, a.Index)
	})),

	"bestiary.add": mutate(func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		entry, err := cat.Monster(a.Monster)
		if err != nil {
			return nil, err
		}
		return s.AddFromBestiary(entry.Monster), nil
	}),
	"bestiary.addAll": mutate(func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		var templates []domain.Character
		for _, t := range cat.Tiers() {
			if a.Tier == 0 || t.Number == a.Tier {
				templates = append(templates, t.Monsters...)
			}
		}
		return s.AddAllFromBestiary(templates), nil
	}),
	"bestiary.search": read(func(cat *catalog.Catalog, _ *domain.Session, a Action) (any, error) {
		return cat.SearchMonsters(a.Text)
	}),

	"scene.add": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return s.AddScene(sceneInput(a))
	}),
	"scene.update": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		if a.Scene == nil {
			return nil, missing("scene")
		}
		return nil, s.UpdateScene(a.ID, *a.Scene)
	}),
	"scene.delete": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.DeleteScene(a.ID)
	}),
	"scene.current": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.SetCurrentScene(a.ID)
	}),
	"scene.environment": mutate(func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		layer := domain.Layer(a.Layer)
		if layer != domain.LayerMacro && layer != domain.LayerMicro {
			return nil, invalid("layer must be macro or micro")
		}
		choice, err := cat.Resolve(layer, a.Environment, a.Tier)
		if err != nil {
			return nil, err
		}
		return choice, s.SetSceneEnvironment(a.ID, layer, choice)
	}),
	"scene.modifier": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.SetSceneModifier(a.ID, a.Text)
	}),
	"scene.presence": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.SetScenePresence(a.ID, a.Present)
	}),

	"clock.add": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return s.AddClock(a.Name, a.Segments, a.Hidden)
	}),
	"clock.adjust": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return s.AdjustClock(a.ID, a.Delta)
	}),
	"clock.reset": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.ResetClock(a.ID)
	}),
	"clock.hide": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.ToggleClockHidden(a.ID)
	}),
	"clock.delete": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		return nil, s.DeleteClock(a.ID)
	}),

	"dice.difficulty": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		s.SetDifficulty(a.Value)
		return s.DiceRoller().Difficulty, nil
	}),
	"dice.modifier": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		s.AdjustModifier(a.Delta)
		return s.DiceRoller().Modifier, nil
	}),
	"dice.advantage": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		s.ToggleAdvantage(domain.ParseAdvantageMode(a.Mode))
		return s.DiceRoller().Advantage, nil
	}),
	"dice.duality": mutate(func(_ *catalog.Catalog, s *domain.Session, _ Action) (any, error) {
		return s.RollDuality(), nil
	}),
	"dice.d20": mutate(func(_ *catalog.Catalog, s *domain.Session, _ Action) (any, error) {
		return s.RollD20(), nil
	}),
	"dice.damage": mutate(func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		expr, err := ParseDice(a.Dice)
		if err != nil {
			return nil, err
		}
		return s.RollDamage(expr)
	}),

	"move.execute": mutate(func(cat *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		m, err := cat.Move(a.Move)
		if err != nil {
			return nil, err
		}
		return m, s.ExecuteMove(m)
	}),
}

func withKind(fn func(s *domain.Session, k domain.Kind, a Action) (any, error)) func(*catalog.Catalog, *domain.Session, Action) (any, error) {
	return func(_ *catalog.Catalog, s *domain.Session, a Action) (any, error) {
		k, ok := domain.ParseKind(a.Kind)
		if !ok {
			return nil, invalid("unknown roster " + strconv.Quote(a.Kind))
		}
		return fn(s, k, a)
	}
}

func characterInput(a Action) domain.CharacterInput {
	if a.Character != nil {
		return *a.Character
	}
	in := domain.DefaultCharacterInput()
	in.Name = a.Name
	return in
}

func sceneInput(a Action) domain.SceneInput {
	if a.Scene != nil {
		return *a.Scene
	}
	return domain.SceneInput{Name: a.Name}
}

// ParseDice parses a damage expression such as 2d6+1.
func ParseDice(spec string) (dice.Expression, error) {
	expr, err := dice.ParseExpression(spec)
	if err != nil {
		return dice.Expression{}, apperrors.WrapWithMetadata(apperrors.CodeInvalidDiceSpec, "invalid dice", map[string]string{
			"Spec": spec,
		}, err)
	}
	return expr, nil
}

func invalid(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidAction, reason, map[string]string{"Reason": reason})
}

func missing(field string) error {
	return invalid(field + " is required")
}
