package chunker

import (
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Mode selects how a structural parser treats syntax errors.
type Mode int

const (
	// ModeAST treats any parse error as a structural failure: one error
	// record, then windowed fallback. Extraction only looks at top-level
	// declarations, like a full-grammar AST walk.
	ModeAST Mode = iota
	// ModeRecover records every error and missing node but keeps
	// extracting whatever structure the tree still holds.
	ModeRecover
)

// Spec describes how to structurally chunk one language: its grammar
// plus the node types that mark extractable declarations.
type Spec struct {
	Language *sitter.Language
	Mode     Mode

	// Classes are class-like declaration node types. Methods are the
	// member node types extracted from a class body and tagged with the
	// class as their parent.
	Classes []string
	Methods []string
	// Functions are function node types chunked outside any class.
	Functions []string

	// Decls are flat declaration node types for languages without a
	// class hierarchy; their chunks are tagged with DeclKind.
	Decls    []string
	DeclKind string

	// Containers are the declaration node types reported as the
	// enclosing entity of an error node.
	Containers []string
}

// Registry maps language names to structural parser specs. Languages
// without a registered spec fall through to windowed chunking, which is
// the seam for adding more languages.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds a spec under the given language name.
func (r *Registry) Register(language string, spec *Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[language] = spec
}

// Lookup returns the spec for a language, or nil.
func (r *Registry) Lookup(language string) *Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.specs[language]
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.specs))
	for l := range r.specs {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
