package filter

import (
	"testing"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

var monsterFields = Fields{
	"name":    FieldString,
	"type":    FieldString,
	"tier":    FieldInt,
	"hp":      FieldInt,
	"evasion": FieldInt,
}

func sentry() Resolver {
	return MapResolver(map[string]any{
		"name":    "Sentry Drone",
		"type":    "Minion (Construct)",
		"tier":    1,
		"hp":      3,
		"evasion": 11,
		"hidden":  false,
	})
}

func TestParse(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		e, err := Parse("   ", monsterFields)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e != nil {
			t.Fatal("expected nil expr for blank filter")
		}
	})

	t.Run("valid filters", func(t *testing.T) {
		for _, f := range []string{`name = "Sentry Drone"`, "tier = 1", `tier >= 2 AND hp < 10`} {
			e, err := Parse(f, monsterFields)
			if err != nil {
				t.Fatalf("parse %q: %v", f, err)
			}
			if e == nil {
				t.Fatalf("expected expr for %q", f)
			}
		}
	})

	t.Run("invalid filter syntax", func(t *testing.T) {
		if _, err := Parse("!!!invalid", monsterFields); err == nil {
			t.Fatal("expected error for invalid syntax")
		}
	})

	t.Run("undeclared field", func(t *testing.T) {
		if _, err := Parse(`armor = 3`, monsterFields); err == nil {
			t.Fatal("expected error for undeclared field")
		}
	})

	t.Run("unsupported field type", func(t *testing.T) {
		if _, err := Parse(`x = "foo"`, Fields{"x": FieldType("complex")}); err == nil {
			t.Fatal("expected error for unsupported field type")
		}
	})
}

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{`name = "sentry drone"`, true},
		{"tier = 1", true},
		{"tier >= 2", false},
		{"hp < 5 AND evasion > 10", true},
		{"tier = 3 OR hp <= 3", true},
		{`type != "Minion (Construct)"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			f, err := Compile(tt.filter, monsterFields)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if f.Empty() != (tt.filter == "") {
				t.Fatalf("Empty() = %v", f.Empty())
			}
			got, err := f.Match(sentry())
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if got != tt.want {
				t.Fatalf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func ident(name string) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_IdentExpr{IdentExpr: &expr.Expr_Ident{Name: name}}}
}

func str(value string) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_ConstExpr{ConstExpr: &expr.Constant{
		ConstantKind: &expr.Constant_StringValue{StringValue: value},
	}}}
}

func call(fn string, args ...*expr.Expr) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_CallExpr{CallExpr: &expr.Expr_Call{Function: fn, Args: args}}}
}

func TestEvaluateHasAndNot(t *testing.T) {
	tests := []struct {
		name string
		e    *expr.Expr
		want bool
	}{
		{"has substring", call(":", ident("type"), str("construct")), true},
		{"has missing", call(":", ident("name"), str("wraith")), false},
		{"has wildcard", call(":", ident("name"), str("*")), true},
		{"not", call("NOT", call(":", ident("name"), str("wraith"))), true},
		{"bare bool", ident("hidden"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.e, sentry())
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		e    *expr.Expr
	}{
		{"unknown field", call("=", ident("armor"), str("3"))},
		{"type mismatch", call("=", ident("tier"), str("one"))},
		{"unsupported function", call("timestamp", ident("name"))},
		{"has on number", call(":", ident("tier"), str("1"))},
		{"constant on left", call("=", str("x"), ident("name"))},
		{"not arity", call("NOT")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Evaluate(tt.e, sentry()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
