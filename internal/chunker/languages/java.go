package languages

import (
	"github.com/smacker/go-tree-sitter/java"

	"repolens/internal/chunker"
)

// RegisterJava runs in recovery mode: error and missing nodes are
// recorded with position and context, and class/method extraction
// proceeds over whatever the tree still holds.
func RegisterJava(r *chunker.Registry) {
	r.Register("java", &chunker.Spec{
		Language: java.GetLanguage(),
		Mode:     chunker.ModeRecover,
		Classes:  []string{"class_declaration", "interface_declaration", "enum_declaration"},
		Methods:  []string{"method_declaration", "constructor_declaration"},
		Containers: []string{
			"class_declaration",
			"method_declaration",
			"field_declaration",
		},
	})
}
