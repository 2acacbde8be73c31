// Package dice rolls polyhedral dice from an injectable uniform source.
package dice

import (
	"math/rand"

	"github.com/louisbranch/voidlight/internal/random"
)

// RollDice rolls dice based on the provided request.
//
// RollDice is deterministic with respect to Request.Seed: the same seed and
// the same Dice slice always produce the same Result. Rolls appear in the
// order of Request.Dice. Result.Total is the sum of every die rolled.
//
// At least one Spec must be provided, otherwise ErrMissingDice is returned.
// Each Spec must have 0 < Sides <= MaxSides and 0 < Count <= MaxCount,
// otherwise ErrInvalidDiceSpec is returned.
func RollDice(request Request) (Result, error) {
	return RollWithSource(rand.New(rand.NewSource(request.Seed)), request.Dice)
}

// RollWithSource rolls specs using src. Passing a scripted source makes the
// faces predictable.
func RollWithSource(src Source, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}
	for _, spec := range specs {
		if !validSpec(spec) {
			return Result{}, ErrInvalidDiceSpec
		}
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		results := make([]int, spec.Count)
		rollTotal := 0
		for i := range results {
			results[i] = Die(src, spec.Sides)
			rollTotal += results[i]
		}
		rolls = append(rolls, Roll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}

func validSpec(spec Spec) bool {
	return spec.Sides > 0 && spec.Sides <= MaxSides && spec.Count > 0 && spec.Count <= MaxCount
}

// Die rolls a single die with the provided number of sides.
func Die(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// NewSource returns a math/rand generator seeded from crypto/rand.
func NewSource() (*rand.Rand, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}
