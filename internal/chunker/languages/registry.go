package languages

import "repolens/internal/chunker"

// NewDefaultRegistry registers every bundled grammar.
func NewDefaultRegistry() *chunker.Registry {
	r := chunker.NewRegistry()
	RegisterPython(r)
	RegisterJava(r)
	RegisterGo(r)
	RegisterJavaScript(r)
	RegisterTypeScript(r)
	return r
}
