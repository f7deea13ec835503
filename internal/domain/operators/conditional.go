package operators

import (
	"fmt"
	"go/ast"
	"go/token"

	m "github.com/EvanKepner/mutatest/internal/model"
)

const (
	opIfStatement = "If_Statement"
	opIfTrue      = "If_True"
	opIfFalse     = "If_False"

	literalTrue  = "true"
	literalFalse = "false"
)

// scanConditionalTest fingerprints the test expression of an if or for
// statement. Tests that are already constant literals are tagged If_True or
// If_False; everything else is tagged If_Statement, which can only be
// collapsed to a constant, never produced as a replacement.
func scanConditionalTest(fset *token.FileSet, cond ast.Expr) []m.MutationTarget {
	if cond == nil {
		// for { ... } has no test to collapse.
		return nil
	}

	start, ok := offsetForPos(fset, cond.Pos())
	if !ok {
		return nil
	}

	end, ok := offsetForPos(fset, cond.End())
	if !ok {
		return nil
	}

	opType := opIfStatement

	if ident, isIdent := cond.(*ast.Ident); isIdent {
		switch ident.Name {
		case literalTrue:
			opType = opIfTrue
		case literalFalse:
			opType = opIfFalse
		}
	}

	target, ok := targetAt(fset, cond, m.KindConditionalTest, opType, start, end)
	if !ok {
		return nil
	}

	return []m.MutationTarget{target}
}

// rewriteConditionalTest discards the original test expression, replacing its
// entire byte range with a constant.
func rewriteConditionalTest(content []byte, target m.MutationTarget, mutation string) ([]byte, error) {
	var replacement string

	switch mutation {
	case opIfTrue:
		replacement = literalTrue
	case opIfFalse:
		replacement = literalFalse
	default:
		return nil, fmt.Errorf("conditional test cannot be rewritten to %q", mutation)
	}

	return replaceRange(content, target.StartOffset, target.EndOffset, replacement), nil
}

// scanConstantLiteral fingerprints bare true/false identifiers.
func scanConstantLiteral(fset *token.FileSet, ident *ast.Ident) []m.MutationTarget {
	if ident.Name != literalTrue && ident.Name != literalFalse {
		return nil
	}

	start, ok := offsetForPos(fset, ident.Pos())
	if !ok {
		return nil
	}

	target, ok := targetAt(fset, ident, m.KindConstantLiteral, ident.Name, start, start+len(ident.Name))
	if !ok {
		return nil
	}

	return []m.MutationTarget{target}
}
