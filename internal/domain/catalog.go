// Package domain contains the core mutation engine: the operator catalog,
// source-unit genomes, target filters, and the trial controller.
package domain

import (
	"slices"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// OperatorCategory describes one closed family of interchangeable operators.
// Members are ordered; replacement enumeration follows this order.
type OperatorCategory struct {
	Name    string
	Code    string
	Kinds   []m.NodeKind
	Members []string

	// SelfReferential marks categories whose members substitute only for
	// themselves (slice range shrink: repeated application keeps producing
	// the same class with a new numeric value).
	SelfReferential bool
}

// Operator member names for the custom (non-token) categories.
const (
	OpIfStatement = "If_Statement"
	OpIfTrue      = "If_True"
	OpIfFalse     = "If_False"

	OpIndexPos  = "Index_NumPos"
	OpIndexNeg  = "Index_NumNeg"
	OpIndexZero = "Index_NumZero"

	OpSliceUnboundUpper = "Slice_UnboundUpper"
	OpSliceUnboundLower = "Slice_UnboundLower"
	OpSliceUnbounded    = "Slice_Unbounded"
	OpSliceUPosToZero   = "Slice_UPosToZero"
	OpSliceUNegToZero   = "Slice_UNegToZero"
)

// catalog is the process-wide category registry. It is read-only after
// initialization; adding a category is a code change, not a runtime event.
var catalog = []OperatorCategory{
	{
		Name:    "AugAssign",
		Code:    "aa",
		Kinds:   []m.NodeKind{m.KindAugmentedAssign},
		Members: []string{"+=", "-=", "*=", "/="},
	},
	{
		Name:    "BinOp",
		Code:    "bn",
		Kinds:   []m.NodeKind{m.KindBinaryOp},
		Members: []string{"+", "-", "*", "/", "%"},
	},
	{
		Name:    "BinOp Bit Comparison",
		Code:    "bc",
		Kinds:   []m.NodeKind{m.KindBitwiseOp},
		Members: []string{"&", "|", "^"},
	},
	{
		Name:    "BinOp Bit Shifts",
		Code:    "bs",
		Kinds:   []m.NodeKind{m.KindShiftOp},
		Members: []string{"<<", ">>"},
	},
	{
		Name:    "BoolOp",
		Code:    "bl",
		Kinds:   []m.NodeKind{m.KindBooleanOp},
		Members: []string{"&&", "||"},
	},
	{
		Name:    "Compare",
		Code:    "cp",
		Kinds:   []m.NodeKind{m.KindComparison},
		Members: []string{"==", "!=", "<", "<=", ">", ">="},
	},
	{
		Name:    "If",
		Code:    "if",
		Kinds:   []m.NodeKind{m.KindConditionalTest},
		Members: []string{OpIfStatement, OpIfTrue, OpIfFalse},
	},
	{
		Name:    "Index",
		Code:    "ix",
		Kinds:   []m.NodeKind{m.KindIndexExpr},
		Members: []string{OpIndexPos, OpIndexNeg, OpIndexZero},
	},
	{
		Name:    "NameConstant",
		Code:    "nc",
		Kinds:   []m.NodeKind{m.KindConstantLiteral},
		Members: []string{"true", "false"},
	},
	{
		Name:    "Slice Unbounded Swap",
		Code:    "su",
		Kinds:   []m.NodeKind{m.KindSliceSwap},
		Members: []string{OpSliceUnboundUpper, OpSliceUnboundLower, OpSliceUnbounded},
	},
	{
		Name:            "Slice Range Change",
		Code:            "sr",
		Kinds:           []m.NodeKind{m.KindSliceRange},
		Members:         []string{OpSliceUPosToZero, OpSliceUNegToZero},
		SelfReferential: true,
	},
}

// Categories returns the full catalog in registration order.
func Categories() []OperatorCategory {
	out := make([]OperatorCategory, len(catalog))
	copy(out, catalog)

	return out
}

// ValidCodes returns every registered two-letter category code in catalog order.
func ValidCodes() []string {
	codes := make([]string, 0, len(catalog))
	for _, c := range catalog {
		codes = append(codes, c.Code)
	}

	return codes
}

// CategoryOf resolves the category governing a node kind. Unregistered kinds
// are a classification error, never a silent default.
func CategoryOf(kind m.NodeKind) (OperatorCategory, error) {
	for _, c := range catalog {
		if slices.Contains(c.Kinds, kind) {
			return c, nil
		}
	}

	return OperatorCategory{}, &ClassificationError{Kind: kind}
}

// CategoryByCode looks up a category by its two-letter code.
func CategoryByCode(code string) (OperatorCategory, bool) {
	for _, c := range catalog {
		if c.Code == code {
			return c, true
		}
	}

	return OperatorCategory{}, false
}

// Contains reports whether op is a member of the category.
func (c OperatorCategory) Contains(op string) bool {
	return slices.Contains(c.Members, op)
}

// IsLegal reports whether candidate is a member of the category identified by
// code. Unknown codes are never legal.
func IsLegal(code, candidate string) bool {
	c, ok := CategoryByCode(code)
	if !ok {
		return false
	}

	return c.Contains(candidate)
}

// MutationsFor enumerates the legal replacements for a target in fixed catalog
// order. The original operator is excluded, If_Statement is never produced as
// a replacement, and self-referential categories substitute the original for
// itself.
func MutationsFor(target m.MutationTarget) ([]string, error) {
	c, err := CategoryOf(target.Kind)
	if err != nil {
		return nil, err
	}

	if c.SelfReferential {
		return []string{target.OpType}, nil
	}

	mutations := make([]string, 0, len(c.Members)-1)

	for _, op := range c.Members {
		if op == target.OpType || op == OpIfStatement {
			continue
		}

		mutations = append(mutations, op)
	}

	return mutations, nil
}
