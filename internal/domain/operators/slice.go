package operators

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	m "github.com/EvanKepner/mutatest/internal/model"
)

const (
	opSliceUnboundUpper = "Slice_UnboundUpper"
	opSliceUnboundLower = "Slice_UnboundLower"
	opSliceUnbounded    = "Slice_Unbounded"
	opSliceUPosToZero   = "Slice_UPosToZero"
	opSliceUNegToZero   = "Slice_UNegToZero"
)

// scanSliceExpr fingerprints slice expressions two ways. A slice with exactly
// one bound is a swap target: x[l:] is tagged Slice_UnboundUpper and x[:u] is
// tagged Slice_UnboundLower, named for the bound that remains open. A slice
// with both bounds where the upper is an integer literal is a range-change
// target, shrinking the upper bound toward zero. Three-index slice
// expressions are skipped because dropping a bound next to a capacity bound
// does not parse.
func scanSliceExpr(fset *token.FileSet, expr *ast.SliceExpr) []m.MutationTarget {
	if expr.Slice3 {
		return nil
	}

	if swapTag, ok := sliceSwapTag(expr); ok {
		start, sok := offsetForPos(fset, expr.Lbrack)
		end, eok := offsetForPos(fset, expr.Rbrack)

		if !sok || !eok {
			return nil
		}

		target, tok := targetAt(fset, expr, m.KindSliceSwap, swapTag, start+1, end)
		if !tok {
			return nil
		}

		return []m.MutationTarget{target}
	}

	if rangeTag, ok := sliceRangeTag(expr); ok {
		start, sok := offsetForPos(fset, expr.High.Pos())
		end, eok := offsetForPos(fset, expr.High.End())

		if !sok || !eok {
			return nil
		}

		target, tok := targetAt(fset, expr.High, m.KindSliceRange, rangeTag, start, end)
		if !tok {
			return nil
		}

		return []m.MutationTarget{target}
	}

	return nil
}

func sliceSwapTag(expr *ast.SliceExpr) (string, bool) {
	switch {
	case expr.Low != nil && expr.High == nil:
		return opSliceUnboundUpper, true
	case expr.Low == nil && expr.High != nil:
		return opSliceUnboundLower, true
	default:
		return "", false
	}
}

func sliceRangeTag(expr *ast.SliceExpr) (string, bool) {
	if expr.Low == nil || expr.High == nil {
		return "", false
	}

	if _, _, ok := upperBoundValue(expr.High); !ok {
		return "", false
	}

	if isNegatedIntLit(expr.High) {
		return opSliceUNegToZero, true
	}

	return opSliceUPosToZero, true
}

// upperBoundValue extracts the magnitude and sign of an integer upper bound.
func upperBoundValue(high ast.Expr) (n int, negative bool, ok bool) {
	switch v := high.(type) {
	case *ast.BasicLit:
		if v.Kind != token.INT {
			return 0, false, false
		}

		parsed, err := strconv.Atoi(v.Value)
		if err != nil {
			return 0, false, false
		}

		return parsed, false, true

	case *ast.UnaryExpr:
		if v.Op != token.SUB {
			return 0, false, false
		}

		lit, isLit := v.X.(*ast.BasicLit)
		if !isLit || lit.Kind != token.INT {
			return 0, false, false
		}

		parsed, err := strconv.Atoi(lit.Value)
		if err != nil {
			return 0, false, false
		}

		return parsed, true, true

	default:
		return 0, false, false
	}
}

func isNegatedIntLit(high ast.Expr) bool {
	_, negative, ok := upperBoundValue(high)
	return ok && negative
}

func rewriteSliceExpr(fset *token.FileSet, expr *ast.SliceExpr, content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	switch target.Kind {
	case m.KindSliceSwap:
		return rewriteSliceSwap(fset, expr, content, target, mutation)
	case m.KindSliceRange:
		return rewriteSliceRange(expr, content, target, mutation)
	default:
		return nil, fmt.Errorf("no slice rewrite rule for node kind %s", target.Kind)
	}
}

// rewriteSliceSwap rebuilds the bracket interior. The single original bound
// moves to the other side of the colon or drops entirely.
func rewriteSliceSwap(fset *token.FileSet, expr *ast.SliceExpr, content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	bound := expr.Low
	if bound == nil {
		bound = expr.High
	}

	if bound == nil {
		return nil, fmt.Errorf("slice swap target has no bound to move")
	}

	boundStart, sok := offsetForPos(fset, bound.Pos())
	boundEnd, eok := offsetForPos(fset, bound.End())

	if !sok || !eok || boundStart < 0 || boundEnd > len(content) || boundEnd < boundStart {
		return nil, fmt.Errorf("slice bound byte range out of bounds")
	}

	boundText := string(content[boundStart:boundEnd])

	var interior string

	switch mutation {
	case opSliceUnboundUpper:
		interior = boundText + ":"
	case opSliceUnboundLower:
		interior = ":" + boundText
	case opSliceUnbounded:
		interior = ":"
	default:
		return nil, fmt.Errorf("slice swap cannot be rewritten to %q", mutation)
	}

	return replaceRange(content, target.StartOffset, target.EndOffset, interior), nil
}

// rewriteSliceRange shrinks the upper bound one step toward zero: a positive
// bound n becomes n-1, a negative bound -n becomes -(n-1).
func rewriteSliceRange(expr *ast.SliceExpr, content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	if mutation != target.OpType {
		return nil, fmt.Errorf("slice range change cannot be rewritten to %q", mutation)
	}

	n, negative, ok := upperBoundValue(expr.High)
	if !ok {
		return nil, fmt.Errorf("slice upper bound is not an integer literal")
	}

	replacement := strconv.Itoa(n - 1)
	if negative {
		replacement = "-" + replacement
	}

	return replaceRange(content, target.StartOffset, target.EndOffset, replacement), nil
}
