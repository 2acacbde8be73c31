package domain

// Mode selects who a view is rendered for.
type Mode int

const (
	// KeeperView shows everything.
	KeeperView Mode = iota
	// PlayerView hides what only the keeper should see.
	PlayerView
)

func (m Mode) String() string {
	if m == PlayerView {
		return "player"
	}
	return "keeper"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode maps "player" to PlayerView and anything else to KeeperView.
func ParseMode(text string) Mode {
	if text == "player" {
		return PlayerView
	}
	return KeeperView
}

// View is the whole session projected for one audience.
type View struct {
	Mode         Mode            `json:"mode"`
	SessionName  string          `json:"sessionName"`
	Fear         int             `json:"fear"`
	MaxFear      int             `json:"maxFear"`
	Notes        string          `json:"notes,omitempty"`
	Spotlight    *CharacterView  `json:"spotlight"`
	CurrentScene *SceneView      `json:"currentScene"`
	Scenes       []SceneView     `json:"scenes"`
	Clocks       []Clock         `json:"clocks"`
	Players      []CharacterView `json:"players"`
	NPCs         []CharacterView `json:"npcs"`
	Monsters     []CharacterView `json:"monsters"`
	Dice         DiceRoller      `json:"diceRoller"`
}

// CharacterView is a sheet with its derived role and dashboard flags.
type CharacterView struct {
	Character
	Kind         Kind     `json:"kind"`
	Role         Role     `json:"role"`
	CostResource Resource `json:"costResource"`
	HopeCap      int      `json:"hopeCap"`
	ShowCosts    bool     `json:"showCosts"`
	Pinned       bool     `json:"pinned"`
	Spotlight    bool     `json:"spotlight"`
}

// SceneView is a scene with its cast resolved to names.
type SceneView struct {
	Scene
	Present []string `json:"present"`
	Current bool     `json:"current"`
}

// Roster returns the characters of roster k in the view.
func (v View) Roster(k Kind) []CharacterView {
	switch k {
	case KindPlayer:
		return v.Players
	case KindNPC:
		return v.NPCs
	case KindMonster:
		return v.Monsters
	default:
		return nil
	}
}

// Pinned returns the pinned characters of every roster in roster order.
func (v View) Pinned() []CharacterView {
	var out []CharacterView
	for _, k := range Kinds {
		for _, c := range v.Roster(k) {
			if c.Pinned {
				out = append(out, c)
			}
		}
	}
	return out
}

// Project renders the session for mode. The result shares nothing with the
// session.
func (s *Session) Project(mode Mode) View {
	player := mode == PlayerView
	v := View{
		Mode:        mode,
		SessionName: s.doc.SessionName,
		Fear:        s.doc.FearTokens,
		MaxFear:     MaxFear,
		Dice:        s.doc.DiceRoller.clone(),
	}
	if !player {
		v.Notes = s.doc.Notes
	}
	focus, hasFocus := s.Spotlight()

	for _, k := range Kinds {
		var views []CharacterView
		for _, c := range s.doc.Roster(k) {
			if player && c.Hidden {
				continue
			}
			cv := projectCharacter(k, c.clone(), player)
			cv.Pinned = s.doc.DashboardPins.Has(k, c.ID)
			cv.Spotlight = hasFocus && focus.Kind == k && focus.ID == c.ID
			if cv.Spotlight {
				spot := cv
				v.Spotlight = &spot
			}
			views = append(views, cv)
		}
		switch k {
		case KindPlayer:
			v.Players = views
		case KindNPC:
			v.NPCs = views
		case KindMonster:
			v.Monsters = views
		}
	}

	for _, c := range s.doc.Clocks {
		if player && c.Hidden {
			continue
		}
		v.Clocks = append(v.Clocks, c)
	}

	for _, sc := range s.doc.Scenes {
		view := SceneView{
			Scene:   sc.clone(),
			Present: s.presentFor(sc, player),
			Current: sc.ID == s.doc.CurrentScene,
		}
		if player {
			view.Notes = ""
			view.Details.Tips = ""
			view.Details.PossibleOutcomes = nil
		}
		v.Scenes = append(v.Scenes, view)
		if view.Current {
			current := view
			v.CurrentScene = &current
		}
	}
	return v
}

func projectCharacter(k Kind, c Character, player bool) CharacterView {
	role := RoleOf(k, c)
	cv := CharacterView{
		Kind:         k,
		Role:         role,
		CostResource: role.CostResource(),
		HopeCap:      role.HopeCap(),
		ShowCosts:    true,
	}
	if player {
		c.KeeperNotes = ""
		if !role.HasHope() {
			cv.ShowCosts = false
			for i := range c.Abilities {
				c.Abilities[i].Cost = 0
			}
		}
	}
	cv.Character = c
	return cv
}

func (s *Session) presentFor(sc Scene, player bool) []string {
	if !player {
		return s.PresentNames(sc)
	}
	names := make([]string, 0, len(sc.Details.NPCsPresent))
	for _, ref := range sc.Details.NPCsPresent {
		if !ref.Resolved() {
			names = append(names, ref.Name)
			continue
		}
		c, err := s.character(ref.Kind, ref.ID)
		if err != nil || c.Hidden {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}
