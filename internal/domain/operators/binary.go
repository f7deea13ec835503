package operators

import (
	"go/ast"
	"go/token"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// kindForBinaryOp classifies a binary operator token into its node kind.
// Tokens outside the catalog map to KindInvalid.
func kindForBinaryOp(op token.Token) m.NodeKind {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		return m.KindBinaryOp
	case token.AND, token.OR, token.XOR:
		return m.KindBitwiseOp
	case token.SHL, token.SHR:
		return m.KindShiftOp
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return m.KindComparison
	case token.LAND, token.LOR:
		return m.KindBooleanOp
	default:
		return m.KindInvalid
	}
}

func scanBinaryExpr(fset *token.FileSet, expr *ast.BinaryExpr) []m.MutationTarget {
	kind := kindForBinaryOp(expr.Op)
	if kind == m.KindInvalid {
		return nil
	}

	start, ok := offsetForPos(fset, expr.OpPos)
	if !ok {
		return nil
	}

	op := expr.Op.String()

	target, ok := targetAt(fset, expr, kind, op, start, start+len(op))
	if !ok {
		return nil
	}

	return []m.MutationTarget{target}
}

// augAssignTokens are the augmented assignment operators in the catalog.
// IncDec statements (x++, x--) are not assignment statements in the grammar
// and are deliberately out of scope.
var augAssignTokens = map[token.Token]struct{}{
	token.ADD_ASSIGN: {},
	token.SUB_ASSIGN: {},
	token.MUL_ASSIGN: {},
	token.QUO_ASSIGN: {},
}

func scanAugmentedAssign(fset *token.FileSet, stmt *ast.AssignStmt) []m.MutationTarget {
	if _, ok := augAssignTokens[stmt.Tok]; !ok {
		return nil
	}

	start, ok := offsetForPos(fset, stmt.TokPos)
	if !ok {
		return nil
	}

	op := stmt.Tok.String()

	target, ok := targetAt(fset, stmt, m.KindAugmentedAssign, op, start, start+len(op))
	if !ok {
		return nil
	}

	return []m.MutationTarget{target}
}
