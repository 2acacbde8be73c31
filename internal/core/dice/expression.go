package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var expressionPattern = regexp.MustCompile(`^(\d*)[dD](\d+)\s*(?:([+-])\s*(\d+))?$`)

// Expression is textual dice notation such as 2d6+1.
type Expression struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseExpression reads NdS with an optional +M or -M. A missing count
// means one die.
func ParseExpression(text string) (Expression, error) {
	match := expressionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return Expression{}, fmt.Errorf("parse %q: %w", text, ErrInvalidDiceSpec)
	}
	count := 1
	if match[1] != "" {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return Expression{}, fmt.Errorf("parse %q: %w", text, ErrInvalidDiceSpec)
		}
		count = n
	}
	sides, err := strconv.Atoi(match[2])
	if err != nil {
		return Expression{}, fmt.Errorf("parse %q: %w", text, ErrInvalidDiceSpec)
	}
	modifier := 0
	if match[4] != "" {
		modifier, err = strconv.Atoi(match[4])
		if err != nil {
			return Expression{}, fmt.Errorf("parse %q: %w", text, ErrInvalidDiceSpec)
		}
		if match[3] == "-" {
			modifier = -modifier
		}
	}
	if !validSpec(Spec{Sides: sides, Count: count}) {
		return Expression{}, fmt.Errorf("parse %q: %w", text, ErrInvalidDiceSpec)
	}
	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Spec returns the dice part of the expression.
func (e Expression) Spec() Spec {
	return Spec{Sides: e.Sides, Count: e.Count}
}

func (e Expression) String() string {
	switch {
	case e.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", e.Count, e.Sides, e.Modifier)
	case e.Modifier < 0:
		return fmt.Sprintf("%dd%d-%d", e.Count, e.Sides, -e.Modifier)
	default:
		return fmt.Sprintf("%dd%d", e.Count, e.Sides)
	}
}
