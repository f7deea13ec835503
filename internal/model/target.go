// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// NodeKind tags the syntax-tree node classes that are eligible for mutation.
// It is a closed set: nodes outside this enumeration are never mutation
// targets, and KindInvalid marks anything unregistered.
type NodeKind string

const (
	// KindInvalid marks nodes with no registered operator category.
	KindInvalid NodeKind = ""

	// KindBinaryOp represents arithmetic binary operators (+, -, *, /, %).
	KindBinaryOp NodeKind = "BinaryOp"
	// KindBitwiseOp represents bitwise binary operators (&, |, ^).
	KindBitwiseOp NodeKind = "BitwiseOp"
	// KindShiftOp represents bit-shift operators (<<, >>).
	KindShiftOp NodeKind = "ShiftOp"
	// KindComparison represents comparison operators (==, !=, <, <=, >, >=).
	KindComparison NodeKind = "Comparison"
	// KindBooleanOp represents boolean operators (&&, ||).
	KindBooleanOp NodeKind = "BooleanOp"
	// KindAugmentedAssign represents augmented assignments (+=, -=, *=, /=).
	KindAugmentedAssign NodeKind = "AugmentedAssign"
	// KindConditionalTest represents if/for test expressions collapsed to
	// constant true or false.
	KindConditionalTest NodeKind = "ConditionalTest"
	// KindIndexExpr represents integer subscripts classified by sign.
	KindIndexExpr NodeKind = "IndexExpr"
	// KindConstantLiteral represents the boolean literals true and false.
	KindConstantLiteral NodeKind = "ConstantLiteral"
	// KindSliceSwap represents slice expressions whose bounds can be swapped
	// between unbounded-upper and unbounded-lower forms.
	KindSliceSwap NodeKind = "SliceSwap"
	// KindSliceRange represents bounded slice expressions whose upper bound
	// moves one unit toward zero.
	KindSliceRange NodeKind = "SliceRange"
)

// MutationTarget identifies one mutable syntax location within a source unit.
// Targets are value types: two targets at the same position with different
// original operators are distinct. End positions are zero when the parser
// could not determine them.
type MutationTarget struct {
	Kind        NodeKind
	Line        int
	Col         int
	EndLine     int
	EndCol      int
	StartOffset int
	EndOffset   int

	// OpType is the canonical string for the original operator or value at
	// this location, e.g. "+", "&&", "+=", "true", "If_Statement",
	// "Index_NumPos", "Slice_UnboundUpper".
	OpType string
}

// GroupTarget pairs a target with the source path that owns it, used when
// enumerating targets across a GenomeGroup.
type GroupTarget struct {
	SourcePath Path
	Target     MutationTarget
}
