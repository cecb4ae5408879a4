package chunk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("   \n\t"))
	assert.Equal(t, 3, EstimateTokens("foo bar  baz\n"))
	assert.Equal(t, 5, EstimateTokens("def add(a, b):\n    return a"))
}

func TestNewFillsDerivedFields(t *testing.T) {
	c := New(Chunk{Content: "one two three", FilePath: "a.py", Type: Code})

	assert.Equal(t, 3, c.TokenCount)
	require.NotNil(t, c.Metadata)
	assert.Empty(t, c.Kind())

	c = New(Chunk{Content: "x", Metadata: map[string]any{"kind": "function"}})
	assert.Equal(t, "function", c.Kind())
}

func TestChunkJSONContract(t *testing.T) {
	c := New(Chunk{
		Content:   "def f(): pass",
		FilePath:  "src/main.py",
		Type:      Code,
		StartLine: 3,
		EndLine:   3,
		Language:  "python",
		Name:      "f",
		Metadata:  map[string]any{"kind": "function"},
	})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	for _, key := range []string{"content", "file_path", "chunk_type", "start_line", "end_line", "language", "name", "token_count", "metadata"} {
		assert.Contains(t, got, key)
	}
	assert.Equal(t, "code", got["chunk_type"])

	// Zero line numbers and empty optional fields stay off the wire.
	data, err = json.Marshal(New(Chunk{Content: "x", FilePath: "a.json", Type: Configuration}))
	require.NoError(t, err)

	got = map[string]any{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "start_line")
	assert.NotContains(t, got, "end_line")
	assert.NotContains(t, got, "parent")
	assert.NotContains(t, got, "name")
}
