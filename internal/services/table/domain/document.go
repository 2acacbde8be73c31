package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

// DocumentVersion is written into full saves and section exports.
const DocumentVersion = "1.0"

// Pins lists the dashboard-pinned ids of each roster.
type Pins struct {
	Players  []ID `json:"players"`
	NPCs     []ID `json:"npcs"`
	Monsters []ID `json:"monsters"`
}

func (p *Pins) list(k Kind) *[]ID {
	switch k {
	case KindPlayer:
		return &p.Players
	case KindNPC:
		return &p.NPCs
	case KindMonster:
		return &p.Monsters
	default:
		return nil
	}
}

// Has reports whether id is pinned in roster k.
func (p Pins) Has(k Kind, id ID) bool {
	list := p.list(k)
	if list == nil {
		return false
	}
	for _, pinned := range *list {
		if pinned == id {
			return true
		}
	}
	return false
}

func (p Pins) clone() Pins {
	return Pins{
		Players:  append([]ID{}, p.Players...),
		NPCs:     append([]ID{}, p.NPCs...),
		Monsters: append([]ID{}, p.Monsters...),
	}
}

// Focus is the spotlight: a roster and an id.
type Focus struct {
	Kind Kind `json:"type"`
	ID   ID   `json:"id"`
}

// Purpose selects what a snapshot carries.
type Purpose int

const (
	// QuickSave drops roll results and history and stamps savedAt.
	QuickSave Purpose = iota
	// FullSave keeps the roller history and the spotlight.
	FullSave
)

// Document is the JSON form of a session. Version, Timestamp,
// SpotlightFocus and SavedAt are only written by snapshots and ignored on
// load.
type Document struct {
	Version        string          `json:"version,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
	SessionName    string          `json:"sessionName"`
	FearTokens     int             `json:"fearTokens"`
	CurrentScene   ID              `json:"currentScene"`
	Notes          string          `json:"notes"`
	DashboardPins  Pins            `json:"dashboardPins"`
	Clocks         []Clock         `json:"clocks"`
	Players        []Character     `json:"players"`
	NPCs           []Character     `json:"npcs"`
	Monsters       []Character     `json:"monsters"`
	Scenes         []Scene         `json:"scenes"`
	DiceRoller     DiceRoller      `json:"diceRoller"`
	SpotlightFocus json.RawMessage `json:"spotlightFocus,omitempty"`
	SavedAt        string          `json:"savedAt,omitempty"`
}

// ParseDocument decodes data into a normalized document. Missing fields get
// their defaults. Unknown fields are ignored.
func ParseDocument(data []byte) (Document, error) {
	doc := Document{
		CurrentScene: 1,
		DiceRoller:   NewDiceRoller(),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, apperrors.WrapWithMetadata(apperrors.CodeInvalidDocument, "decode document", map[string]string{
			"Reason": err.Error(),
		}, err)
	}
	return doc.Normalize(), nil
}

// BlankDocument is the state of a session with nothing in it.
func BlankDocument() Document {
	return Document{DiceRoller: NewDiceRoller()}.Normalize()
}

// Roster returns the characters of roster k.
func (d Document) Roster(k Kind) []Character {
	switch k {
	case KindPlayer:
		return d.Players
	case KindNPC:
		return d.NPCs
	case KindMonster:
		return d.Monsters
	default:
		return nil
	}
}

func (d *Document) roster(k Kind) *[]Character {
	switch k {
	case KindPlayer:
		return &d.Players
	case KindNPC:
		return &d.NPCs
	case KindMonster:
		return &d.Monsters
	default:
		return nil
	}
}

// Normalize returns a copy with defaults filled, values clamped, ids made
// unique per collection, legacy scene presence migrated and snapshot-only
// metadata cleared.
func (d Document) Normalize() Document {
	d = d.Clone()
	d.Version, d.Timestamp, d.SavedAt, d.SpotlightFocus = "", "", "", nil
	d.FearTokens = clamp(d.FearTokens, 0, MaxFear)

	for _, k := range Kinds {
		list := d.roster(k)
		ids := make([]ID, len(*list))
		for i, c := range *list {
			ids[i] = c.ID
		}
		for i, id := range uniqueIDs(ids) {
			c := (*list)[i].normalized(k)
			c.ID = id
			(*list)[i] = c
		}
	}

	clockIDs := make([]ID, len(d.Clocks))
	for i, c := range d.Clocks {
		clockIDs[i] = c.ID
	}
	for i, id := range uniqueIDs(clockIDs) {
		d.Clocks[i] = d.Clocks[i].normalized()
		d.Clocks[i].ID = id
	}

	sceneIDs := make([]ID, len(d.Scenes))
	for i, s := range d.Scenes {
		sceneIDs[i] = s.ID
	}
	for i, id := range uniqueIDs(sceneIDs) {
		s := d.Scenes[i].normalized()
		s.ID = id
		s.Details.NPCsPresent = d.migratePresence(s.Details.NPCsPresent)
		d.Scenes[i] = s
	}

	if _, ok := d.sceneIndex(d.CurrentScene); !ok {
		d.CurrentScene = 0
		if len(d.Scenes) > 0 {
			d.CurrentScene = d.Scenes[0].ID
		}
	}

	for _, k := range Kinds {
		pins := d.DashboardPins.list(k)
		*pins = d.validPins(k, *pins)
	}
	d.DiceRoller = d.DiceRoller.normalized()
	return d
}

// migratePresence turns name-only references that match an NPC or monster
// into id references.
func (d Document) migratePresence(refs []PresenceRef) []PresenceRef {
	out := make([]PresenceRef, 0, len(refs))
	for _, ref := range refs {
		if !ref.Resolved() {
			if strings.TrimSpace(ref.Name) == "" {
				continue
			}
			if found, ok := d.findByName(ref.Name); ok {
				ref = found
			}
		}
		out = append(out, ref)
	}
	return out
}

func (d Document) findByName(name string) (PresenceRef, bool) {
	name = strings.TrimSpace(name)
	for _, k := range []Kind{KindNPC, KindMonster} {
		for _, c := range d.Roster(k) {
			if strings.EqualFold(c.Name, name) {
				return PresenceRef{Kind: k, ID: c.ID}, true
			}
		}
	}
	return PresenceRef{}, false
}

func (d Document) validPins(k Kind, pins []ID) []ID {
	known := make(map[ID]bool)
	for _, c := range d.Roster(k) {
		known[c.ID] = true
	}
	out := make([]ID, 0, len(pins))
	seen := make(map[ID]bool)
	for _, id := range pins {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (d Document) sceneIndex(id ID) (int, bool) {
	for i, s := range d.Scenes {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy that shares nothing with d.
func (d Document) Clone() Document {
	d.DashboardPins = d.DashboardPins.clone()
	d.Clocks = append([]Clock{}, d.Clocks...)
	for _, k := range Kinds {
		list := d.roster(k)
		cloned := make([]Character, len(*list))
		for i, c := range *list {
			cloned[i] = c.clone()
		}
		*list = cloned
	}
	scenes := make([]Scene, len(d.Scenes))
	for i, s := range d.Scenes {
		scenes[i] = s.clone()
	}
	d.Scenes = scenes
	d.DiceRoller = d.DiceRoller.clone()
	if d.SpotlightFocus != nil {
		d.SpotlightFocus = append(json.RawMessage{}, d.SpotlightFocus...)
	}
	return d
}

var fileNameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName is the download name of a save of session name on day t (UTC).
func FileName(name string, t time.Time) string {
	return fileNameUnsafe.ReplaceAllString(name, "_") + "_" + t.UTC().Format("2006-01-02") + ".json"
}
