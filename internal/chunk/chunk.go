package chunk

import "strings"

// Category is the broad kind of content a file holds.
type Category string

const (
	Code          Category = "code"
	Documentation Category = "documentation"
	Configuration Category = "configuration"
	Unknown       Category = "unknown"
)

// Chunk is an immutable unit of retrievable text with source provenance.
// Line numbers are 1-based and inclusive; zero means the chunk spans an
// artifact with no line addressing (e.g. a whole configuration file).
type Chunk struct {
	Content   string         `json:"content"`
	FilePath  string         `json:"file_path"`
	Type      Category       `json:"chunk_type"`
	StartLine int            `json:"start_line,omitempty"`
	EndLine   int            `json:"end_line,omitempty"`
	Language  string         `json:"language,omitempty"`
	Parent    string         `json:"parent,omitempty"`
	Name      string         `json:"name,omitempty"`
	// TokenCount is a whitespace-split word count, a coarse stand-in for
	// a real tokenizer.
	TokenCount int            `json:"token_count"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New fills the derived fields of a chunk. Every producer goes through
// here so TokenCount is never set by hand and Metadata always carries a
// "kind" tag.
func New(c Chunk) Chunk {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.TokenCount = EstimateTokens(c.Content)
	return c
}

// Kind returns the producer tag from the chunk's metadata.
func (c Chunk) Kind() string {
	k, _ := c.Metadata["kind"].(string)
	return k
}

// EstimateTokens approximates a token count by splitting on whitespace.
func EstimateTokens(s string) int {
	return len(strings.Fields(s))
}
