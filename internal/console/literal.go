package console

import (
	"errors"
	"fmt"

	"go.starlark.net/syntax"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// errNotLiteral reports argument text outside the accepted literal grammar.
var errNotLiteral = errors.New("not a literal")

// tuple is a parenthesized, comma-separated literal list.
type tuple []any

// mapping is a literal {name: value} dict, in source order.
type mapping []Field

var literalOptions = &syntax.FileOptions{}

// parseLiteral parses the argument text of a Kind.verb(...) call.
//
// Accepted: string, int and float literals (optionally signed), True, False,
// None, a parenthesized scalar, a tuple whose items are scalars or mappings,
// and a mapping of string keys to string, int or float values. Anything else
// (lists, names, calls, operators, nested tuples) returns errNotLiteral.
func parseLiteral(text string) (any, error) {
	expr, err := literalOptions.ParseExpr("<args>", text, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotLiteral, err)
	}
	return topLevel(expr)
}

func topLevel(expr syntax.Expr) (any, error) {
	switch e := expr.(type) {
	case *syntax.ParenExpr:
		return topLevel(e.X)
	case *syntax.TupleExpr:
		items := make(tuple, 0, len(e.List))
		for _, x := range e.List {
			v, err := item(x)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		return item(expr)
	}
}

// item parses one tuple element: a scalar or a mapping.
func item(expr syntax.Expr) (any, error) {
	switch e := expr.(type) {
	case *syntax.ParenExpr:
		return item(e.X)
	case *syntax.DictExpr:
		return dict(e)
	default:
		return scalar(expr)
	}
}

func dict(e *syntax.DictExpr) (mapping, error) {
	m := make(mapping, 0, len(e.List))
	for _, x := range e.List {
		entry, ok := x.(*syntax.DictEntry)
		if !ok {
			return nil, errNotLiteral
		}
		k, err := scalar(entry.Key)
		if err != nil {
			return nil, err
		}
		name, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: mapping key %v is not a string", errNotLiteral, k)
		}
		raw, err := scalar(entry.Value)
		if err != nil {
			return nil, err
		}
		v, err := types.ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: mapping value for %q: %v", errNotLiteral, name, err)
		}
		m = append(m, Field{Name: name, Value: v})
	}
	return m, nil
}

// scalar parses a string, number, True, False or None.
func scalar(expr syntax.Expr) (any, error) {
	switch e := expr.(type) {
	case *syntax.ParenExpr:
		return scalar(e.X)
	case *syntax.Literal:
		switch v := e.Value.(type) {
		case string:
			if e.Token != syntax.STRING {
				return nil, errNotLiteral
			}
			return v, nil
		case int64, float64:
			return v, nil
		default:
			return nil, fmt.Errorf("%w: %s", errNotLiteral, e.Raw)
		}
	case *syntax.Ident:
		switch e.Name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
	case *syntax.UnaryExpr:
		if e.Op != syntax.MINUS && e.Op != syntax.PLUS {
			break
		}
		lit, ok := e.X.(*syntax.Literal)
		if !ok {
			break
		}
		switch v := lit.Value.(type) {
		case int64:
			if e.Op == syntax.MINUS {
				return -v, nil
			}
			return v, nil
		case float64:
			if e.Op == syntax.MINUS {
				return -v, nil
			}
			return v, nil
		}
	}
	return nil, errNotLiteral
}

// truthy reports whether a literal counts as present: empty strings, zero,
// False, None, and empty tuples or mappings do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int64:
		return x != 0
	case float64:
		return x != 0
	case tuple:
		return len(x) > 0
	case mapping:
		return len(x) > 0
	default:
		return true
	}
}
