package chunker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"repolens/internal/chunk"
	"repolens/internal/syntaxerr"
)

// structural parses content with the language's registered grammar and
// extracts declaration chunks. It reports every failure through the
// returned records and answers hard failures with windowed chunks, so
// the caller always gets a usable result.
func (c *Chunker) structural(path, content, language string) ([]chunk.Chunk, []syntaxerr.Record) {
	spec := c.registry.Lookup(language)
	src := []byte(content)

	parser := sitter.NewParser()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		// A hard parser failure, distinct from an error-flagged tree.
		c.logger.Warn("parser failed", "path", path, "language", language, "error", err)
		rec := syntaxerr.Record{
			FilePath: path,
			Language: language,
			Message:  fmt.Sprintf("failed to parse: %v", err),
		}
		return c.fallback(path, content, language), []syntaxerr.Record{rec}
	}
	defer tree.Close()
	root := tree.RootNode()

	var records []syntaxerr.Record
	if root.HasError() {
		c.logger.Warn("syntax error", "path", path, "language", language)
		if spec.Mode == ModeAST {
			records = append(records, strictError(path, language, root))
			return c.fallback(path, content, language), records
		}
		records = collectErrors(spec, path, language, root, content)
		if len(records) == 0 {
			// Error flag set but no explicit error nodes found.
			records = append(records, syntaxerr.Record{
				FilePath: path,
				Language: language,
				Message:  language + " syntax error detected by tree-sitter",
			})
		}
	}

	var chunks []chunk.Chunk
	switch {
	case len(spec.Decls) > 0:
		chunks = extractDecls(spec, path, language, root, src)
	case spec.Mode == ModeAST:
		chunks = extractTopLevel(spec, path, language, root, src)
	default:
		chunks = extractClassTree(spec, path, language, root, src)
	}

	if len(chunks) == 0 {
		// Files with no extractable declarations (pure imports,
		// constants) still produce one whole-file chunk.
		chunks = []chunk.Chunk{chunk.New(chunk.Chunk{
			Content:  content,
			FilePath: path,
			Type:     chunk.Code,
			Language: language,
			Metadata: map[string]any{"kind": "whole_file"},
		})}
	}
	return chunks, records
}

func (c *Chunker) fallback(path, content, language string) []chunk.Chunk {
	return BySize(content, path, chunk.Code, language, c.window.ChunkSize, c.window.CodeOverlap)
}

// strictError reports a parse failure for an AST-mode language, with
// the line of the first error node when one exists.
func strictError(path, language string, root *sitter.Node) syntaxerr.Record {
	rec := syntaxerr.Record{FilePath: path, Language: language, Message: "invalid syntax"}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type() == "ERROR" || n.IsMissing() {
			rec.Line = int(n.StartPoint().Row) + 1
			return rec
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child.HasError() {
				stack = append(stack, child)
			}
		}
	}
	return rec
}

// collectErrors walks the tree for error and missing nodes. Each one is
// recorded with its position, a ±3-line context window, and the nearest
// enclosing declaration. The walk is iterative: error trees can nest
// arbitrarily deep.
func collectErrors(spec *Spec, path, language string, root *sitter.Node, content string) []syntaxerr.Record {
	lines := strings.Split(content, "\n")
	var records []syntaxerr.Record

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n != root && (n.Type() == "ERROR" || n.IsMissing()) {
			records = append(records, errorRecord(spec, path, language, n, lines))
		}

		// Only subtrees flagged as erroneous can hold error nodes.
		// Children are pushed in reverse so records come out in
		// document order.
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child.HasError() || child.IsMissing() {
				stack = append(stack, child)
			}
		}
	}
	return records
}

func errorRecord(spec *Spec, path, language string, n *sitter.Node, lines []string) syntaxerr.Record {
	line := int(n.StartPoint().Row) + 1
	column := int(n.StartPoint().Column) + 1

	kind := "Syntax Error"
	if n.IsMissing() {
		kind = "Missing Element"
	}

	containing := "Unknown"
	for p := n.Parent(); p != nil; p = p.Parent() {
		if slices.Contains(spec.Containers, p.Type()) {
			containing = p.Type()
			break
		}
	}

	ctxStart := max(0, line-4)
	ctxEnd := min(len(lines), line+3)
	context := strings.Join(lines[ctxStart:ctxEnd], "\n")

	return syntaxerr.Record{
		FilePath: path,
		Language: language,
		Message:  fmt.Sprintf("%s in %s", kind, containing),
		Line:     line,
		Entity:   containing,
		Metadata: map[string]any{
			"column":             column,
			"context":            context,
			"error_node_type":    n.Type(),
			"containing_element": containing,
		},
	}
}

// extractTopLevel chunks only the root's direct declarations: every
// class (with its direct methods), then every standalone function, in
// document order within each group.
func extractTopLevel(spec *Spec, path, language string, root *sitter.Node, src []byte) []chunk.Chunk {
	var classes, functions []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := unwrapDecorated(root.NamedChild(i))
		switch {
		case slices.Contains(spec.Classes, n.Type()):
			classes = append(classes, n)
		case slices.Contains(spec.Functions, n.Type()):
			functions = append(functions, n)
		}
	}

	var chunks []chunk.Chunk
	for _, cls := range classes {
		chunks = append(chunks, classChunks(spec, path, language, cls, src)...)
	}
	for _, fn := range functions {
		chunks = append(chunks, nodeChunk(path, language, fn, src,
			"function", "", nameOf(fn, src, "unnamed")))
	}
	return chunks
}

// extractClassTree walks the whole tree for class-like declarations and
// standalone functions. Descent stops at a class: its members are
// extracted here, and nested classes stay part of their parent's chunk.
func extractClassTree(spec *Spec, path, language string, root *sitter.Node, src []byte) []chunk.Chunk {
	var chunks []chunk.Chunk
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case slices.Contains(spec.Classes, n.Type()):
			chunks = append(chunks, classChunks(spec, path, language, n, src)...)
			continue
		case slices.Contains(spec.Functions, n.Type()):
			chunks = append(chunks, nodeChunk(path, language, n, src,
				"function", "", nameOf(n, src, "unnamed")))
			continue
		}
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return chunks
}

// extractDecls walks the whole tree for flat declarations (the Go
// shape: functions, methods, type declarations) and tags each chunk
// with the spec's DeclKind plus the concrete node type.
func extractDecls(spec *Spec, path, language string, root *sitter.Node, src []byte) []chunk.Chunk {
	var chunks []chunk.Chunk
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if slices.Contains(spec.Decls, n.Type()) {
			chunks = append(chunks, chunk.New(chunk.Chunk{
				Content:   strings.TrimSpace(string(src[n.StartByte():n.EndByte()])),
				FilePath:  path,
				Type:      chunk.Code,
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				Language:  language,
				Name:      declName(n, src),
				Metadata: map[string]any{
					"kind":      spec.DeclKind,
					"node_type": n.Type(),
				},
			}))
		}
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return chunks
}

// classChunks emits a chunk for the class's full range plus one per
// member method, with the class as the methods' parent.
func classChunks(spec *Spec, path, language string, cls *sitter.Node, src []byte) []chunk.Chunk {
	className := nameOf(cls, src, "UnknownClass")
	chunks := []chunk.Chunk{nodeChunk(path, language, cls, src, "class", "", className)}

	body := cls.ChildByFieldName("body")
	if body == nil {
		return chunks
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := unwrapDecorated(body.NamedChild(i))
		if slices.Contains(spec.Methods, m.Type()) {
			chunks = append(chunks, nodeChunk(path, language, m, src,
				"method", className, nameOf(m, src, "UnknownMethod")))
		}
	}
	return chunks
}

// nodeChunk builds a chunk from a node's exact byte span and line range.
func nodeChunk(path, language string, n *sitter.Node, src []byte, kind, parent, name string) chunk.Chunk {
	return chunk.New(chunk.Chunk{
		Content:   string(src[n.StartByte():n.EndByte()]),
		FilePath:  path,
		Type:      chunk.Code,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Language:  language,
		Parent:    parent,
		Name:      name,
		Metadata:  map[string]any{"kind": kind},
	})
}

func nameOf(n *sitter.Node, src []byte, fallback string) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return fallback
}

// declName resolves a declaration's name, looking through type_spec for
// Go type declarations whose name sits one level down.
func declName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_spec" {
			if name := child.ChildByFieldName("name"); name != nil {
				return name.Content(src)
			}
		}
	}
	return "unnamed"
}

// unwrapDecorated looks through Python decorated_definition wrappers.
func unwrapDecorated(n *sitter.Node) *sitter.Node {
	if n.Type() == "decorated_definition" {
		if def := n.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return n
}
