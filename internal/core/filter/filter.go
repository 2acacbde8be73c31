// Package filter compiles AIP-160 filter strings over a fixed field set and
// evaluates them against records.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// FieldType describes a supported filter field type.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldBool   FieldType = "bool"
)

// Fields defines filterable fields and their types.
type Fields map[string]FieldType

// Filter is a checked expression ready for evaluation. The zero Filter
// matches everything.
type Filter struct {
	source string
	expr   *expr.Expr
}

// Compile parses filterStr against fields.
func Compile(filterStr string, fields Fields) (Filter, error) {
	e, err := Parse(filterStr, fields)
	if err != nil {
		return Filter{}, err
	}
	return Filter{source: strings.TrimSpace(filterStr), expr: e}, nil
}

// Match reports whether the record behind resolve satisfies the filter.
func (f Filter) Match(resolve Resolver) (bool, error) {
	return Evaluate(f.expr, resolve)
}

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool {
	return f.expr == nil
}

func (f Filter) String() string {
	return f.source
}

// Parse parses an AIP-160 filter expression for the provided fields.
func Parse(filterStr string, fields Fields) (*expr.Expr, error) {
	if strings.TrimSpace(filterStr) == "" {
		return nil, nil
	}

	decls, err := declarations(fields)
	if err != nil {
		return nil, err
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return parsed.CheckedExpr.GetExpr(), nil
}

func declarations(fields Fields) (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, kind := range fields {
		switch kind {
		case FieldString:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeInt))
		case FieldBool:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeBool))
		default:
			return nil, fmt.Errorf("unsupported field type for %s", name)
		}
	}
	return filtering.NewDeclarations(decls...)
}
