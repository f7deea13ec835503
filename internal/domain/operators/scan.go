package operators

import (
	"fmt"
	"go/ast"
	"go/token"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// Scan walks every node of the parsed file and returns the full mutation
// target set. When literalsReadOnly is set, literal-value kinds (constant
// literals, integer subscripts and slice bounds) are excluded from the result.
//
// Scanning the same tree twice yields identical target sets: fingerprints are
// derived purely from node positions and original operators.
func Scan(fset *token.FileSet, file *ast.File, literalsReadOnly bool) []m.MutationTarget {
	targets := make([]m.MutationTarget, 0)

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return true
		}

		for _, t := range scanNode(fset, n) {
			if literalsReadOnly && isLiteralKind(t.Kind) {
				continue
			}

			targets = append(targets, t)
		}

		return true
	})

	return targets
}

func isLiteralKind(kind m.NodeKind) bool {
	switch kind {
	case m.KindConstantLiteral, m.KindIndexExpr, m.KindSliceSwap, m.KindSliceRange:
		return true
	default:
		return false
	}
}

// scanNode dispatches on node type. Nodes whose kind is not registered in the
// catalog produce no targets; they are non-mutable rather than defaulted.
func scanNode(fset *token.FileSet, n ast.Node) []m.MutationTarget {
	switch node := n.(type) {
	case *ast.BinaryExpr:
		return scanBinaryExpr(fset, node)
	case *ast.AssignStmt:
		return scanAugmentedAssign(fset, node)
	case *ast.IfStmt:
		return scanConditionalTest(fset, node.Cond)
	case *ast.ForStmt:
		return scanConditionalTest(fset, node.Cond)
	case *ast.IndexExpr:
		return scanIndexExpr(fset, node)
	case *ast.Ident:
		return scanConstantLiteral(fset, node)
	case *ast.SliceExpr:
		return scanSliceExpr(fset, node)
	default:
		return nil
	}
}

// Apply rewrites exactly the node identified by target, substituting mutation
// for the original operator or value, and returns the mutated source bytes.
// The parsed tree and input content are left untouched. Apply fails when no
// node in the file matches the target fingerprint.
func Apply(fset *token.FileSet, file *ast.File, content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	var (
		mutated  []byte
		found    bool
		applyErr error
	)

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil || found || applyErr != nil {
			return false
		}

		for _, t := range scanNode(fset, n) {
			if t != target {
				continue
			}

			found = true
			mutated, applyErr = rewriteNode(fset, n, content, target, mutation)

			return false
		}

		return true
	})

	if applyErr != nil {
		return nil, applyErr
	}

	if !found {
		return nil, fmt.Errorf("no syntax node matches target %s at %d:%d", target.Kind, target.Line, target.Col)
	}

	return mutated, nil
}

func rewriteNode(fset *token.FileSet, n ast.Node, content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	switch target.Kind {
	case m.KindBinaryOp, m.KindBitwiseOp, m.KindShiftOp, m.KindComparison,
		m.KindBooleanOp, m.KindAugmentedAssign, m.KindConstantLiteral:
		// Token-for-token substitution: the stored byte range covers the
		// original operator or literal exactly.
		return replaceRange(content, target.StartOffset, target.EndOffset, mutation), nil

	case m.KindConditionalTest:
		return rewriteConditionalTest(content, target, mutation)

	case m.KindIndexExpr:
		return rewriteIndexExpr(content, target, mutation)

	case m.KindSliceSwap, m.KindSliceRange:
		slice, ok := n.(*ast.SliceExpr)
		if !ok {
			return nil, fmt.Errorf("target %s does not reference a slice expression", target.Kind)
		}

		return rewriteSliceExpr(fset, slice, content, target, mutation)

	default:
		return nil, fmt.Errorf("no rewrite rule for node kind %s", target.Kind)
	}
}
