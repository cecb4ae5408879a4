package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/chunk"
)

func kinds(chunks []chunk.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Kind()
	}
	return out
}

func TestPythonTopLevelFunction(t *testing.T) {
	ck, tracker := newTestChunker()
	src := "def add(a, b):\n    return a + b\n"

	chunks := ck.ChunkFile("math.py", src, chunk.Code, "python")
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "def add(a, b):\n    return a + b", c.Content)
	assert.Equal(t, "add", c.Name)
	assert.Equal(t, "function", c.Kind())
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 2, c.EndLine)
	assert.Empty(t, c.Parent)
	assert.False(t, tracker.HasErrors())
}

func TestPythonClassWithMethods(t *testing.T) {
	ck, tracker := newTestChunker()
	src := `class Greeter:
    def greet(self):
        return "hi"

    def farewell(self):
        return "bye"

def standalone():
    pass
`

	chunks := ck.ChunkFile("greeter.py", src, chunk.Code, "python")
	require.Len(t, chunks, 4)

	assert.Equal(t, []string{"class", "method", "method", "function"}, kinds(chunks))
	assert.Equal(t, "Greeter", chunks[0].Name)
	assert.Equal(t, "greet", chunks[1].Name)
	assert.Equal(t, "Greeter", chunks[1].Parent)
	assert.Equal(t, "farewell", chunks[2].Name)
	assert.Equal(t, "Greeter", chunks[2].Parent)
	assert.Equal(t, "standalone", chunks[3].Name)
	assert.False(t, tracker.HasErrors())
}

func TestPythonDecoratedDefinitions(t *testing.T) {
	ck, _ := newTestChunker()
	src := "@cached\ndef compute():\n    return 42\n"

	chunks := ck.ChunkFile("deco.py", src, chunk.Code, "python")
	require.Len(t, chunks, 1)
	assert.Equal(t, "compute", chunks[0].Name)
	assert.Equal(t, "function", chunks[0].Kind())
}

func TestPythonImportsOnlyYieldsWholeFile(t *testing.T) {
	ck, tracker := newTestChunker()
	src := "import os\nimport sys\n\nVERSION = \"1.0\"\n"

	chunks := ck.ChunkFile("init.py", src, chunk.Code, "python")
	require.Len(t, chunks, 1)
	assert.Equal(t, "whole_file", chunks[0].Kind())
	assert.Equal(t, src, chunks[0].Content)
	assert.False(t, tracker.HasErrors())
}

func TestPythonSyntaxErrorFallsBackToWindows(t *testing.T) {
	ck, tracker := newTestChunker()
	src := "def broken(:\n    pass\n"

	chunks := ck.ChunkFile("bad.py", src, chunk.Code, "python")
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "size_based_chunk", c.Kind())
	}

	errs := tracker.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "bad.py", errs[0].FilePath)
	assert.Equal(t, "python", errs[0].Language)
	assert.Equal(t, "invalid syntax", errs[0].Message)
}

func TestJavaClassExtraction(t *testing.T) {
	ck, tracker := newTestChunker()
	src := `public class Account {
    private int balance;

    public Account(int balance) {
        this.balance = balance;
    }

    public int getBalance() {
        return balance;
    }
}
`

	chunks := ck.ChunkFile("Account.java", src, chunk.Code, "java")
	require.Len(t, chunks, 3)

	assert.Equal(t, []string{"class", "method", "method"}, kinds(chunks))
	assert.Equal(t, "Account", chunks[0].Name)
	assert.Equal(t, "Account", chunks[1].Name) // constructor
	assert.Equal(t, "Account", chunks[1].Parent)
	assert.Equal(t, "getBalance", chunks[2].Name)
	assert.False(t, tracker.HasErrors())
}

func TestJavaErrorRecoveryKeepsExtracting(t *testing.T) {
	ck, tracker := newTestChunker()
	src := `class Partial {
    void ok() {
        int a = 1;
    }

    void broken() {
        int b = 2
    }
}
`

	chunks := ck.ChunkFile("Partial.java", src, chunk.Code, "java")

	// Structure survives the error: the class chunk is still produced.
	require.NotEmpty(t, chunks)
	assert.Equal(t, "class", chunks[0].Kind())
	assert.Equal(t, "Partial", chunks[0].Name)

	errs := tracker.Errors()
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, "Partial.java", e.FilePath)
		assert.Equal(t, "java", e.Language)
		assert.NotEmpty(t, e.Message)
	}
}

func TestJavaErrorRecordCarriesContext(t *testing.T) {
	ck, tracker := newTestChunker()
	src := `class C {
    void m() {
        int x = 1
    }
}
`

	ck.ChunkFile("C.java", src, chunk.Code, "java")

	errs := tracker.Errors()
	require.NotEmpty(t, errs)

	rec := errs[0]
	assert.Greater(t, rec.Line, 0)
	require.NotNil(t, rec.Metadata)
	assert.Contains(t, rec.Metadata, "column")
	assert.Contains(t, rec.Metadata, "context")
	assert.Contains(t, rec.Metadata, "error_node_type")
	assert.Contains(t, rec.Metadata, "containing_element")
	assert.Contains(t, rec.Metadata["context"], "int x = 1")
}

func TestGoDeclarationExtraction(t *testing.T) {
	ck, tracker := newTestChunker()
	src := `package geometry

type Point struct {
	X, Y int
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (p Point) Sum() int {
	return p.X + p.Y
}
`

	chunks := ck.ChunkFile("point.go", src, chunk.Code, "go")
	require.Len(t, chunks, 3)

	for _, c := range chunks {
		assert.Equal(t, "go_decl", c.Kind())
	}
	assert.Equal(t, "Point", chunks[0].Name)
	assert.Equal(t, "type_declaration", chunks[0].Metadata["node_type"])
	assert.Equal(t, "Abs", chunks[1].Name)
	assert.Equal(t, "function_declaration", chunks[1].Metadata["node_type"])
	assert.Equal(t, "Sum", chunks[2].Name)
	assert.Equal(t, "method_declaration", chunks[2].Metadata["node_type"])
	assert.False(t, tracker.HasErrors())
}

func TestJavaScriptClassAndFunction(t *testing.T) {
	ck, _ := newTestChunker()
	src := `class Cart {
  total() {
    return 0;
  }
}

function checkout(cart) {
  return cart.total();
}
`

	chunks := ck.ChunkFile("cart.js", src, chunk.Code, "javascript")
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"class", "method", "function"}, kinds(chunks))
	assert.Equal(t, "Cart", chunks[0].Name)
	assert.Equal(t, "total", chunks[1].Name)
	assert.Equal(t, "checkout", chunks[2].Name)
}
