package adapter

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can focus
// on mutation rules while delegating compilation details to an infrastructure
// component.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// Check reports whether the provided source still parses. Mutated source
	// that fails this check would be rejected by the compiler before any test
	// ran, so it never becomes a mutant.
	Check(filename string, src []byte) error
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// Check parses src into a throwaway file set.
func (a *LocalGoFileAdapter) Check(filename string, src []byte) error {
	_, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.ParseComments)
	return err
}
