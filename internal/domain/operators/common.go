// Package operators provides the syntax-tree scanners and rewriters for each
// mutation category. Scanning enumerates mutation targets; applying rewrites
// a byte copy of the source so the parsed tree and original content are never
// modified in place.
package operators

import (
	"go/ast"
	"go/token"

	m "github.com/EvanKepner/mutatest/internal/model"
)

func offsetForPos(fset *token.FileSet, pos token.Pos) (int, bool) {
	file := fset.File(pos)
	if file == nil {
		return 0, false
	}

	return file.Offset(pos), true
}

// replaceRange splices replacement into a fresh copy of content. The input
// slice is never modified.
func replaceRange(content []byte, start, end int, replacement string) []byte {
	if start < 0 || end < start || end > len(content) {
		return content
	}

	mutated := make([]byte, 0, len(content)-(end-start)+len(replacement))
	mutated = append(mutated, content[:start]...)
	mutated = append(mutated, []byte(replacement)...)
	mutated = append(mutated, content[end:]...)

	return mutated
}

// targetAt builds the location fingerprint for a node using the node's own
// start and end positions plus the byte range that a rewrite would replace.
func targetAt(fset *token.FileSet, node ast.Node, kind m.NodeKind, opType string, start, end int) (m.MutationTarget, bool) {
	if start < 0 || end < start {
		return m.MutationTarget{}, false
	}

	pos := fset.Position(node.Pos())
	endPos := fset.Position(node.End())

	return m.MutationTarget{
		Kind:        kind,
		Line:        pos.Line,
		Col:         pos.Column,
		EndLine:     endPos.Line,
		EndCol:      endPos.Column,
		StartOffset: start,
		EndOffset:   end,
		OpType:      opType,
	}, true
}
