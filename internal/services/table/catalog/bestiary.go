package catalog

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/louisbranch/voidlight/internal/core/filter"
	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Tier is one bestiary tier.
type Tier struct {
	Key         string
	Number      int
	Name        string
	Description string
	Monsters    []domain.Character
}

// Entry is a bestiary monster with the tier it belongs to.
type Entry struct {
	Tier    int
	TierKey string
	Monster domain.Character
}

// MonsterFields are the fields a bestiary filter may reference.
var MonsterFields = filter.Fields{
	"name":    filter.FieldString,
	"type":    filter.FieldString,
	"tier":    filter.FieldInt,
	"hp":      filter.FieldInt,
	"evasion": filter.FieldInt,
}

type bestiaryFile struct {
	Tiers []struct {
		Key         string           `yaml:"key"`
		Name        string           `yaml:"name"`
		Description string           `yaml:"description"`
		Monsters    []map[string]any `yaml:"monsters"`
	} `yaml:"tiers"`
}

func loadBestiary(fsys fs.FS) ([]Tier, error) {
	var file bestiaryFile
	if err := readYAML(fsys, "bestiary.yaml", &file); err != nil {
		return nil, err
	}
	tiers := make([]Tier, 0, len(file.Tiers))
	for i, t := range file.Tiers {
		var monsters []domain.Character
		if err := viaJSON(t.Monsters, &monsters); err != nil {
			return nil, fmt.Errorf("bestiary %s: %w", t.Key, err)
		}
		number := i + 1
		if n, err := strconv.Atoi(strings.TrimPrefix(t.Key, "tier")); err == nil {
			number = n
		}
		tiers = append(tiers, Tier{
			Key:         t.Key,
			Number:      number,
			Name:        t.Name,
			Description: t.Description,
			Monsters:    monsters,
		})
	}
	return tiers, nil
}

// Tiers lists the bestiary tiers in order.
func (c *Catalog) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		t.Monsters = cloneCharacters(t.Monsters)
		out[i] = t
	}
	return out
}

// Entries lists every monster in tier order.
func (c *Catalog) Entries() []Entry {
	var out []Entry
	for _, t := range c.tiers {
		for _, m := range t.Monsters {
			out = append(out, Entry{Tier: t.Number, TierKey: t.Key, Monster: cloneCharacter(m)})
		}
	}
	return out
}

// AllMonsters lists every monster template.
func (c *Catalog) AllMonsters() []domain.Character {
	entries := c.Entries()
	out := make([]domain.Character, len(entries))
	for i, e := range entries {
		out[i] = e.Monster
	}
	return out
}

// Monster looks a template up by name, ignoring case. The error carries
// the closest name when there is one.
func (c *Catalog) Monster(name string) (Entry, error) {
	entries := c.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		if strings.EqualFold(e.Monster.Name, strings.TrimSpace(name)) {
			return e, nil
		}
		names[i] = e.Monster.Name
	}
	return Entry{}, apperrors.WithMetadata(apperrors.CodeMonsterNotFound, "monster not found", map[string]string{
		"Name":       name,
		"Suggestion": Suggest(name, names),
	})
}

// SearchMonsters returns the entries matching an AIP-160 filter over
// MonsterFields. An empty filter matches everything.
func (c *Catalog) SearchMonsters(query string) ([]Entry, error) {
	f, err := filter.Compile(query, MonsterFields)
	if err != nil {
		return nil, filterError(err)
	}
	var out []Entry
	for _, e := range c.Entries() {
		ok, err := f.Match(filter.MapResolver(map[string]any{
			"name":    e.Monster.Name,
			"type":    e.Monster.Type,
			"tier":    int64(e.Tier),
			"hp":      int64(e.Monster.MaxHP),
			"evasion": int64(e.Monster.Evasion),
		}))
		if err != nil {
			return nil, filterError(err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func filterError(err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeInvalidFilter, "invalid filter", map[string]string{
		"Reason": err.Error(),
	}, err)
}

func cloneCharacter(c domain.Character) domain.Character {
	c.ArmorMarked = append([]int{}, c.ArmorMarked...)
	c.Abilities = append([]domain.Ability{}, c.Abilities...)
	return c
}

func cloneCharacters(in []domain.Character) []domain.Character {
	out := make([]domain.Character, len(in))
	for i, c := range in {
		out[i] = cloneCharacter(c)
	}
	return out
}
