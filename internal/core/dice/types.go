package dice

import "errors"

var (
	// ErrMissingDice is returned when a request carries no dice.
	ErrMissingDice = errors.New("at least one die is required")
	// ErrInvalidDiceSpec is returned for non-positive counts or sides.
	ErrInvalidDiceSpec = errors.New("dice count and sides must be positive and within limits")
)

// Limits on a single Spec.
const (
	MaxCount = 100
	MaxSides = 1000
)

// Source is the uniform random source dice draw from. Intn returns a value
// in [0, n).
type Source interface {
	Intn(n int) int
}

// Spec describes Count dice with Sides faces each.
type Spec struct {
	Sides int
	Count int
}

// Request is a seeded multi-spec roll.
type Request struct {
	Dice []Spec
	Seed int64
}

// Roll is the outcome of one Spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result aggregates every Roll of a request.
type Result struct {
	Rolls []Roll
	Total int
}
