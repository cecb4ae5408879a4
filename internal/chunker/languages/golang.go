package languages

import (
	"github.com/smacker/go-tree-sitter/golang"

	"repolens/internal/chunker"
)

// RegisterGo chunks Go's flat declaration shape: functions, methods,
// and type declarations, each tagged go_decl with the concrete node
// type in metadata.
func RegisterGo(r *chunker.Registry) {
	r.Register("go", &chunker.Spec{
		Language: golang.GetLanguage(),
		Mode:     chunker.ModeRecover,
		Decls: []string{
			"function_declaration",
			"method_declaration",
			"type_declaration",
		},
		DeclKind: "go_decl",
		Containers: []string{
			"function_declaration",
			"method_declaration",
			"type_declaration",
		},
	})
}
