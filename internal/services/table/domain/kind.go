package domain

import "strings"

// Kind names a character roster.
type Kind string

const (
	KindPlayer  Kind = "player"
	KindNPC     Kind = "npc"
	KindMonster Kind = "monster"
)

// Kinds lists every roster in display order.
var Kinds = []Kind{KindPlayer, KindNPC, KindMonster}

// ParseKind accepts the singular and plural roster names.
func ParseKind(text string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "player", "players":
		return KindPlayer, true
	case "npc", "npcs":
		return KindNPC, true
	case "monster", "monsters":
		return KindMonster, true
	default:
		return "", false
	}
}

// Section is the plural collection name used in documents.
func (k Kind) Section() Section {
	switch k {
	case KindPlayer:
		return SectionPlayers
	case KindNPC:
		return SectionNPCs
	case KindMonster:
		return SectionMonsters
	default:
		return ""
	}
}

// Role is the tag that decides which resource a character spends.
type Role int

const (
	RolePlayer Role = iota + 1
	RoleAlly
	RoleAdversary
	RoleMonster
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "Player"
	case RoleAlly:
		return "Ally"
	case RoleAdversary:
		return "Adversary"
	case RoleMonster:
		return "Monster"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Resource is what an ability or spotlight costs.
type Resource string

const (
	ResourceHope Resource = "Hope"
	ResourceFear Resource = "Fear"
)

// CostResource reports the resource abilities of this role spend.
func (r Role) CostResource() Resource {
	if r.HasHope() {
		return ResourceHope
	}
	return ResourceFear
}

// HasHope reports whether characters of this role track Hope.
func (r Role) HasHope() bool {
	return r == RolePlayer || r == RoleAlly
}

// HopeCap is the Hope ceiling for the role, or zero when it has none.
func (r Role) HopeCap() int {
	switch r {
	case RolePlayer:
		return MaxPlayerHope
	case RoleAlly:
		return MaxAllyHope
	default:
		return 0
	}
}

// RoleOf derives the role of a character in roster k.
func RoleOf(k Kind, c Character) Role {
	switch k {
	case KindPlayer:
		return RolePlayer
	case KindMonster:
		return RoleMonster
	default:
		if c.IsAlly {
			return RoleAlly
		}
		return RoleAdversary
	}
}
