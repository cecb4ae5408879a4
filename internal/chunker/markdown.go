package chunker

import (
	"regexp"
	"strings"

	"repolens/internal/chunk"
)

// headingRe matches ATX headings: one to six # markers, whitespace,
// then the heading text.
var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// markdown splits a document into one chunk per heading section. A
// section runs from its heading to the start of the next heading (or
// end of file). Content before the first heading becomes an intro
// chunk; a document with no headings at all is windowed instead.
//
// Line numbers are derived from newline counts around the section
// boundaries. They are approximate and intentionally left that way.
func (c *Chunker) markdown(path, content string) []chunk.Chunk {
	headings := headingRe.FindAllStringSubmatchIndex(content, -1)
	if len(headings) == 0 {
		c.logger.Debug("no headings in markdown file, using size-based chunking", "path", path)
		return BySize(content, path, chunk.Documentation, "md", c.window.ChunkSize, c.window.DocOverlap)
	}

	var chunks []chunk.Chunk
	for i, m := range headings {
		level := m[3] - m[2]
		heading := strings.TrimSpace(content[m[4]:m[5]])

		start := m[0]
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		section := content[start:end]

		startLine := strings.Count(content[:start], "\n") + 1
		endLine := startLine + strings.Count(section, "\n")

		chunks = append(chunks, chunk.New(chunk.Chunk{
			Content:   section,
			FilePath:  path,
			Type:      chunk.Documentation,
			StartLine: startLine,
			EndLine:   endLine,
			Language:  "md",
			Name:      heading,
			Metadata: map[string]any{
				"kind":          "markdown_section",
				"heading_level": level,
			},
		}))
	}

	// Non-blank content before the first heading is its own chunk.
	if first := headings[0][0]; first > 0 {
		prefix := content[:first]
		if strings.TrimSpace(prefix) != "" {
			intro := chunk.New(chunk.Chunk{
				Content:   prefix,
				FilePath:  path,
				Type:      chunk.Documentation,
				StartLine: 1,
				EndLine:   strings.Count(prefix, "\n") + 1,
				Language:  "md",
				Name:      "Introduction",
				Metadata:  map[string]any{"kind": "markdown_intro"},
			})
			chunks = append([]chunk.Chunk{intro}, chunks...)
		}
	}

	return chunks
}
