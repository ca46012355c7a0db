// Package sizeexpr evaluates the small arithmetic mini-language used by
// MatingConfig.NewSubPopSizeExpr (spec.md §3, §4.3): `+ - * / ( )` over
// numeric literals and named identifiers, plus a `popSize` builtin bound
// to the subpopulation being resized.
//
// No expression-language third-party package appears anywhere in the
// retrieval pack (checked: no expr-lang, govaluate, Knetic, antonmedv
// hits). The one AST-handling technique the pack does show is
// lixenwraith-vi-fighter's go/parser+go/ast+go/token structural analysis
// (cmd/lixen-map, cmd/focus-catalog); this package reuses that
// technique — parsing the expression as a Go expression and walking its
// AST — rather than hand-rolling a tokenizer or reaching for an
// unvetted dependency absent from the corpus.
package sizeexpr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// Eval parses expr as a Go expression and evaluates it against vars
// (identifier -> value). Supports +, -, *, /, unary -, parentheses,
// integer and floating-point literals, and identifier lookups.
func Eval(expr string, vars map[string]float64) (float64, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("sizeexpr: parse %q: %w", expr, err)
	}
	return evalNode(node, vars)
}

// EvalPerSubPop evaluates expr once per subpopulation, binding popSize
// to that subpopulation's current size (spec.md §4.3: "newSubPopSize
// ... e.g. popSize*1.3"). Other names in vars are shared across every
// subpop. Returns one size per entry in currentSizes, rounded to the
// nearest non-negative integer.
func EvalPerSubPop(expr string, currentSizes []int, vars map[string]float64) ([]int, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("sizeexpr: parse %q: %w", expr, err)
	}

	out := make([]int, len(currentSizes))
	scoped := make(map[string]float64, len(vars)+1)
	for k, v := range vars {
		scoped[k] = v
	}
	for i, size := range currentSizes {
		scoped["popSize"] = float64(size)
		value, err := evalNode(node, scoped)
		if err != nil {
			return nil, err
		}
		if value < 0 {
			return nil, fmt.Errorf("sizeexpr: %q evaluated to negative size %g for subpop %d", expr, value, i)
		}
		out[i] = int(value + 0.5)
	}
	return out, nil
}

func evalNode(node ast.Expr, vars map[string]float64) (float64, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return evalNode(n.X, vars)
	case *ast.BasicLit:
		return evalLiteral(n)
	case *ast.Ident:
		v, ok := vars[n.Name]
		if !ok {
			return 0, fmt.Errorf("sizeexpr: unknown identifier %q", n.Name)
		}
		return v, nil
	case *ast.UnaryExpr:
		x, err := evalNode(n.X, vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.SUB:
			return -x, nil
		case token.ADD:
			return x, nil
		default:
			return 0, fmt.Errorf("sizeexpr: unsupported unary operator %s", n.Op)
		}
	case *ast.BinaryExpr:
		x, err := evalNode(n.X, vars)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(n.Y, vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return x + y, nil
		case token.SUB:
			return x - y, nil
		case token.MUL:
			return x * y, nil
		case token.QUO:
			if y == 0 {
				return 0, fmt.Errorf("sizeexpr: division by zero")
			}
			return x / y, nil
		default:
			return 0, fmt.Errorf("sizeexpr: unsupported operator %s", n.Op)
		}
	default:
		return 0, fmt.Errorf("sizeexpr: unsupported expression node %T", node)
	}
}

func evalLiteral(lit *ast.BasicLit) (float64, error) {
	switch lit.Kind {
	case token.INT, token.FLOAT:
		var value float64
		if _, err := fmt.Sscanf(lit.Value, "%g", &value); err != nil {
			return 0, fmt.Errorf("sizeexpr: invalid numeric literal %q: %w", lit.Value, err)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("sizeexpr: unsupported literal kind %v", lit.Kind)
	}
}
