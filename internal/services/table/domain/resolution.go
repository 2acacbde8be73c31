package domain

import (
	"github.com/louisbranch/voidlight/internal/core/dice"
)

// AdvantageMode is the dice roller's advantage toggle.
type AdvantageMode string

const (
	AdvantageNormal       AdvantageMode = "normal"
	AdvantageAdvantage    AdvantageMode = "advantage"
	AdvantageDisadvantage AdvantageMode = "disadvantage"
)

// ParseAdvantageMode maps free text to a mode, defaulting to normal.
func ParseAdvantageMode(text string) AdvantageMode {
	switch AdvantageMode(text) {
	case AdvantageAdvantage, AdvantageDisadvantage:
		return AdvantageMode(text)
	default:
		return AdvantageNormal
	}
}

// Outcome classifies a duality roll.
type Outcome string

const (
	OutcomeCritical        Outcome = "critical"
	OutcomeSuccessWithHope Outcome = "success-hope"
	OutcomeSuccessWithFear Outcome = "success-fear"
	OutcomeFailureWithHope Outcome = "failure-hope"
	OutcomeFailureWithFear Outcome = "failure-fear"
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCritical:
		return "Critical Success"
	case OutcomeSuccessWithHope:
		return "Success with Hope"
	case OutcomeSuccessWithFear:
		return "Success with Fear"
	case OutcomeFailureWithHope:
		return "Failure with Hope"
	case OutcomeFailureWithFear:
		return "Failure with Fear"
	default:
		return "Unknown"
	}
}

// GainsHope reports whether the outcome grants Hope to the spotlight.
func (o Outcome) GainsHope() bool {
	return o == OutcomeCritical || o == OutcomeSuccessWithHope || o == OutcomeFailureWithHope
}

// GainsFear reports whether the outcome grants the keeper a Fear.
func (o Outcome) GainsFear() bool {
	return o == OutcomeSuccessWithFear || o == OutcomeFailureWithFear
}

// Success reports whether the roll met the difficulty or was a critical.
func (o Outcome) Success() bool {
	return o == OutcomeCritical || o == OutcomeSuccessWithHope || o == OutcomeSuccessWithFear
}

// EvaluateOutcome classifies a duality roll. Doubles are always critical;
// otherwise success is total against difficulty and the higher die decides
// whether it was with Hope or with Fear.
func EvaluateOutcome(hope, fear, total, difficulty int) Outcome {
	switch {
	case hope == fear:
		return OutcomeCritical
	case total >= difficulty && hope > fear:
		return OutcomeSuccessWithHope
	case total >= difficulty:
		return OutcomeSuccessWithFear
	case hope > fear:
		return OutcomeFailureWithHope
	default:
		return OutcomeFailureWithFear
	}
}

// DualityResult is one roll of the hope and fear d12s.
type DualityResult struct {
	Hope       int
	Fear       int
	AdvDie     int
	Modifier   int
	Total      int
	Difficulty int
	Outcome    Outcome
}

// Doubles reports matching dice.
func (r DualityResult) Doubles() bool {
	return r.Hope == r.Fear
}

// RollDuality rolls hope and fear d12s plus a signed d6 under advantage or
// disadvantage. The hope die is drawn first.
func RollDuality(src dice.Source, modifier int, mode AdvantageMode, difficulty int) DualityResult {
	if difficulty < 1 {
		difficulty = 1
	}
	hope := dice.Die(src, 12)
	fear := dice.Die(src, 12)
	adv := 0
	switch mode {
	case AdvantageAdvantage:
		adv = dice.Die(src, 6)
	case AdvantageDisadvantage:
		adv = -dice.Die(src, 6)
	}
	total := hope + fear + modifier + adv
	return DualityResult{
		Hope:       hope,
		Fear:       fear,
		AdvDie:     adv,
		Modifier:   modifier,
		Total:      total,
		Difficulty: difficulty,
		Outcome:    EvaluateOutcome(hope, fear, total, difficulty),
	}
}

// D20Result is a straight d20 check.
type D20Result struct {
	Roll     int
	Rolls    []int
	Modifier int
	Total    int
}

// Nat20 reports a natural twenty on the kept die.
func (r D20Result) Nat20() bool { return r.Roll == 20 }

// Nat1 reports a natural one on the kept die.
func (r D20Result) Nat1() bool { return r.Roll == 1 }

// RollD20 rolls a d20, keeping the higher of two under advantage and the
// lower of two under disadvantage.
func RollD20(src dice.Source, modifier int, mode AdvantageMode) D20Result {
	first := dice.Die(src, 20)
	rolls := []int{first}
	kept := first
	if mode == AdvantageAdvantage || mode == AdvantageDisadvantage {
		second := dice.Die(src, 20)
		rolls = append(rolls, second)
		if mode == AdvantageAdvantage {
			kept = max(first, second)
		} else {
			kept = min(first, second)
		}
	}
	return D20Result{Roll: kept, Rolls: rolls, Modifier: modifier, Total: kept + modifier}
}

// DamageRoll is a damage roll such as 2d6+1.
type DamageRoll struct {
	Dice     string
	Rolls    []int
	Modifier int
	Total    int
}

// RollDamage rolls expr and adds its modifier plus extra.
func RollDamage(src dice.Source, expr dice.Expression, extra int) (DamageRoll, error) {
	result, err := dice.RollWithSource(src, []dice.Spec{expr.Spec()})
	if err != nil {
		return DamageRoll{}, err
	}
	modifier := expr.Modifier + extra
	return DamageRoll{
		Dice:     dice.Expression{Count: expr.Count, Sides: expr.Sides}.String(),
		Rolls:    result.Rolls[0].Results,
		Modifier: modifier,
		Total:    result.Total + modifier,
	}, nil
}
