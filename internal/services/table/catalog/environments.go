package catalog

import (
	"strconv"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Environments holds the macro (world) and micro (location) environments.
type Environments struct {
	Macro []Environment `yaml:"macro"`
	Micro []Environment `yaml:"micro"`
}

// Environment is a playable setting with tier-scaled difficulty.
type Environment struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Description string        `yaml:"description"`
	Tiers       []TierScaling `yaml:"tierScaling"`
	Features    []Feature     `yaml:"features"`
}

// TierScaling is the difficulty and flavour of an environment at a tier.
type TierScaling struct {
	Tier       int    `yaml:"tier"`
	Difficulty int    `yaml:"difficulty"`
	Name       string `yaml:"name"`
	Desc       string `yaml:"desc"`
}

// Feature is an environment feature.
type Feature struct {
	Name     string `yaml:"name"`
	Category string `yaml:"type"`
	Desc     string `yaml:"desc"`
}

// Scaling returns the entry for tier, falling back to the first tier.
func (e Environment) Scaling(tier int) (TierScaling, bool) {
	for _, t := range e.Tiers {
		if t.Tier == tier {
			return t, true
		}
	}
	if len(e.Tiers) == 0 {
		return TierScaling{}, false
	}
	return e.Tiers[0], false
}

func (e Environments) layer(l domain.Layer) []Environment {
	switch l {
	case domain.LayerMacro:
		return e.Macro
	case domain.LayerMicro:
		return e.Micro
	default:
		return nil
	}
}

// Environments lists the environments of a layer.
func (c *Catalog) Environments(l domain.Layer) []Environment {
	return append([]Environment(nil), c.environments.layer(l)...)
}

// Environment looks an environment up by id within a layer.
func (c *Catalog) Environment(l domain.Layer, id string) (Environment, error) {
	envs := c.environments.layer(l)
	ids := make([]string, len(envs))
	for i, e := range envs {
		if e.ID == id {
			return e, nil
		}
		ids[i] = e.ID
	}
	return Environment{}, apperrors.WithMetadata(apperrors.CodeEnvironmentNotFound, "environment not found", map[string]string{
		"ID":         id,
		"Suggestion": Suggest(id, ids),
	})
}

// Resolve turns an environment id and tier into the choice a scene stores.
// An empty id clears the layer. An unknown tier resolves to the first one.
func (c *Catalog) Resolve(l domain.Layer, id string, tier int) (domain.EnvironmentChoice, error) {
	if id == "" {
		return domain.EnvironmentChoice{}, nil
	}
	env, err := c.Environment(l, id)
	if err != nil {
		return domain.EnvironmentChoice{}, err
	}
	scaling, ok := env.Scaling(tier)
	if !ok && len(env.Tiers) == 0 {
		return domain.EnvironmentChoice{}, apperrors.WithMetadata(apperrors.CodeEnvironmentNotFound, "environment has no tiers", map[string]string{
			"ID": id + " tier " + strconv.Itoa(tier),
		})
	}
	return domain.EnvironmentChoice{ID: env.ID, Tier: scaling.Tier, DC: scaling.Difficulty}, nil
}
