// Package languages registers the structural parser specs for every
// language with a tree-sitter grammar. Anything not registered here is
// windowed instead.
package languages

import (
	"github.com/smacker/go-tree-sitter/python"

	"repolens/internal/chunker"
)

// RegisterPython uses the full-grammar AST shape: top-level classes and
// functions only, and any parse error sends the file to the windowed
// fallback.
func RegisterPython(r *chunker.Registry) {
	r.Register("python", &chunker.Spec{
		Language:   python.GetLanguage(),
		Mode:       chunker.ModeAST,
		Classes:    []string{"class_definition"},
		Methods:    []string{"function_definition"},
		Functions:  []string{"function_definition"},
		Containers: []string{"class_definition", "function_definition"},
	})
}
