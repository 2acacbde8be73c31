package filter

import (
	"fmt"
	"strings"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Resolver returns a value for a field name.
type Resolver func(name string) (any, bool)

// MapResolver resolves fields from a map.
func MapResolver(values map[string]any) Resolver {
	return func(name string) (any, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// Evaluate evaluates a parsed filter expression against a resolver.
func Evaluate(e *expr.Expr, resolve Resolver) (bool, error) {
	if e == nil {
		return true, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return evalCall(kind.CallExpr, resolve)
	case *expr.Expr_IdentExpr:
		// A bare boolean field.
		value, ok := resolve(kind.IdentExpr.Name)
		if !ok {
			return false, fmt.Errorf("unknown field: %s", kind.IdentExpr.Name)
		}
		b, isBool := value.(bool)
		if !isBool {
			return false, fmt.Errorf("field %s is not boolean", kind.IdentExpr.Name)
		}
		return b, nil
	default:
		return false, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func evalCall(call *expr.Expr_Call, resolve Resolver) (bool, error) {
	switch call.Function {
	case "AND", "FUZZY", "_&&_":
		return evalAnd(call.Args, resolve)
	case "OR", "_||_":
		return evalOr(call.Args, resolve)
	case "NOT", "-", "!_":
		return evalNot(call.Args, resolve)
	case ":":
		return evalHas(call.Args, resolve)
	case "=", "!=", "<", "<=", ">", ">=":
		return evalCompare(call.Args, resolve, call.Function)
	default:
		return false, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func evalAnd(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("AND requires 2 arguments")
	}
	for _, arg := range args {
		ok, err := Evaluate(arg, resolve)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func evalOr(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("OR requires 2 arguments")
	}
	for _, arg := range args {
		ok, err := Evaluate(arg, resolve)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func evalNot(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("NOT requires 1 argument")
	}
	ok, err := Evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// evalHas is a case-insensitive substring match for string fields.
func evalHas(args []*expr.Expr, resolve Resolver) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}
	l, ok := left.(string)
	if !ok {
		return false, fmt.Errorf("has requires a string field, got %T", left)
	}
	r, ok := right.(string)
	if !ok {
		return false, fmt.Errorf("has requires a string value, got %T", right)
	}
	if r == "*" {
		return l != "", nil
	}
	return strings.Contains(strings.ToLower(l), strings.ToLower(r)), nil
}

func evalCompare(args []*expr.Expr, resolve Resolver, op string) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}
	cmp, err := compareValues(left, right)
	if err != nil {
		return false, err
	}

	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", op)
	}
}

func operands(args []*expr.Expr, resolve Resolver) (any, any, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, nil, err
	}
	left, ok := resolve(field)
	if !ok {
		return nil, nil, fmt.Errorf("unknown field: %s", field)
	}
	right, err := extractValue(args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	if ident, ok := e.ExprKind.(*expr.Expr_IdentExpr); ok {
		return ident.IdentExpr.Name, nil
	}
	return "", fmt.Errorf("expected identifier, got %T", e.ExprKind)
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	constant, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.ExprKind)
	}
	switch kind := constant.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func compareValues(left any, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(strings.ToLower(l), strings.ToLower(r)), nil
	case bool:
		r, ok := right.(bool)
		if !ok {
			return 0, fmt.Errorf("type mismatch: bool vs %T", right)
		}
		switch {
		case l == r:
			return 0, nil
		case r:
			return -1, nil
		default:
			return 1, nil
		}
	}
	lf, ok := toFloat(left)
	if !ok {
		return 0, fmt.Errorf("unsupported value type: %T", left)
	}
	rf, ok := toFloat(right)
	if !ok {
		return 0, fmt.Errorf("type mismatch: number vs %T", right)
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	default:
		return 0, nil
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
