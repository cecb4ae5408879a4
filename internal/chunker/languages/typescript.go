package languages

import (
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"repolens/internal/chunker"
)

func RegisterTypeScript(r *chunker.Registry) {
	r.Register("typescript", &chunker.Spec{
		Language:  typescript.GetLanguage(),
		Mode:      chunker.ModeRecover,
		Classes:   []string{"class_declaration"},
		Methods:   []string{"method_definition"},
		Functions: []string{"function_declaration"},
		Containers: []string{
			"class_declaration",
			"method_definition",
			"function_declaration",
		},
	})
}
