package languages

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"repolens/internal/chunker"
)

func RegisterJavaScript(r *chunker.Registry) {
	r.Register("javascript", &chunker.Spec{
		Language:  javascript.GetLanguage(),
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
