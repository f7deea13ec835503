package operators

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	m "github.com/EvanKepner/mutatest/internal/model"
)

const (
	opIndexPos  = "Index_NumPos"
	opIndexNeg  = "Index_NumNeg"
	opIndexZero = "Index_NumZero"
)

// indexRepresentatives realizes each index class as its concrete
// representative value, not an arbitrary member of the class.
var indexRepresentatives = map[string]string{
	opIndexPos:  "1",
	opIndexNeg:  "-1",
	opIndexZero: "0",
}

// scanIndexExpr classifies integer subscripts by sign: v>0 is Index_NumPos,
// v<0 is Index_NumNeg, v=0 is Index_NumZero. Non-literal subscripts (and
// generic type instantiations, which share the IndexExpr node) are ignored.
func scanIndexExpr(fset *token.FileSet, expr *ast.IndexExpr) []m.MutationTarget {
	opType, ok := classifyIndexValue(expr.Index)
	if !ok {
		return nil
	}

	start, ok := offsetForPos(fset, expr.Index.Pos())
	if !ok {
		return nil
	}

	end, ok := offsetForPos(fset, expr.Index.End())
	if !ok {
		return nil
	}

	target, ok := targetAt(fset, expr.Index, m.KindIndexExpr, opType, start, end)
	if !ok {
		return nil
	}

	return []m.MutationTarget{target}
}

func classifyIndexValue(index ast.Expr) (string, bool) {
	switch v := index.(type) {
	case *ast.BasicLit:
		if v.Kind != token.INT {
			return "", false
		}

		if n, err := strconv.Atoi(v.Value); err == nil && n == 0 {
			return opIndexZero, true
		}

		return opIndexPos, true

	case *ast.UnaryExpr:
		if v.Op != token.SUB {
			return "", false
		}

		lit, ok := v.X.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return "", false
		}

		return opIndexNeg, true

	default:
		return "", false
	}
}

func rewriteIndexExpr(content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	replacement, ok := indexRepresentatives[mutation]
	if !ok {
		return nil, fmt.Errorf("index subscript cannot be rewritten to %q", mutation)
	}

	return replaceRange(content, target.StartOffset, target.EndOffset, replacement), nil
}
