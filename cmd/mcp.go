package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"repolens/internal/chunk"
	"repolens/internal/embedder"
	"repolens/internal/processor"
	"repolens/internal/rag"
	"repolens/internal/retriever"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing chunking and retrieval tools",
	RunE:  runMCP,
}

// mcpState caches the last analyzed repository so query_repository can
// reuse its embedded corpus.
type mcpState struct {
	repository string
	chunks     []chunk.Chunk
	corpus     *retriever.Cosine
	emb        embedder.Embedder
}

func runMCP(cmd *cobra.Command, args []string) error {
	state := &mcpState{
		emb: embedder.NewOllama(cfg.Ollama.Host, cfg.Ollama.EmbeddingModel,
			time.Duration(cfg.Ollama.Timeout)*time.Second),
	}

	s := mcpserver.NewMCPServer("repolens", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(analyzeRepositoryTool(), makeAnalyzeHandler(state))
	s.AddTool(queryRepositoryTool(), makeQueryHandler(state))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func analyzeRepositoryTool() mcp.Tool {
	return mcp.NewTool("analyze_repository",
		mcp.WithDescription("Chunk a repository into semantic units (classes, functions, markdown sections) and embed them for retrieval. Returns run statistics and the syntax error summary."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute or relative path to the repository root"),
		),
	)
}

func queryRepositoryTool() mcp.Tool {
	return mcp.NewTool("query_repository",
		mcp.WithDescription("Retrieve the chunks most similar to a question from the last analyzed repository. Call analyze_repository first."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural language question about the codebase"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Maximum number of chunks to return (default 5)"),
		),
	)
}

// --- Handler factories ---

func makeAnalyzeHandler(state *mcpState) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		root, err := filepath.Abs(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolve path: %v", err)), nil
		}

		proc := processor.New(root, processor.Options{
			Workers:     cfg.Workers,
			ExcludeDirs: cfg.Chunking.ExcludeDirs,
			ChunkSize:   cfg.Chunking.ChunkSize,
			CodeOverlap: cfg.Chunking.CodeOverlap,
			DocOverlap:  cfg.Chunking.DocOverlap,
		}, slog.Default())

		chunks, err := proc.ProcessRepository(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("process repository: %v", err)), nil
		}

		corpus, err := rag.BuildCorpus(ctx, chunks, state.emb)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("embed chunks: %v", err)), nil
		}

		state.repository = filepath.Base(root)
		state.chunks = chunks
		state.corpus = corpus

		stats := proc.Stats()
		var sb strings.Builder
		fmt.Fprintf(&sb, "## Analyzed %s\n\n", state.repository)
		fmt.Fprintf(&sb, "- Files processed: %d\n", stats.FilesProcessed)
		fmt.Fprintf(&sb, "- Chunks created: %d\n", stats.ChunksCreated)
		fmt.Fprintf(&sb, "- Processing time: %.2fs\n", stats.ProcessingTime)
		if stats.Errors > 0 {
			fmt.Fprintf(&sb, "- File errors: %d\n", stats.Errors)
		}
		fmt.Fprintf(&sb, "\n%s\n", proc.SyntaxErrorReport().Summary)

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeQueryHandler(state *mcpState) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}
		if state.corpus == nil {
			return mcp.NewToolResultError("no repository analyzed yet: call analyze_repository first"), nil
		}
		topK := req.GetInt("top_k", cfg.Retrieval.TopK)
		if topK <= 0 {
			topK = cfg.Retrieval.TopK
		}

		results, err := rag.Retrieve(ctx, question, state.corpus, state.emb, topK)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("retrieve failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatRetrieved(state.repository, question, results)), nil
	}
}

// --- Formatting helpers ---

func formatRetrieved(repository, question string, results []retriever.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No chunks matched %q in %s.", question, repository)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Top %d chunks in %s for %q\n\n", len(results), repository, question)
	for i, r := range results {
		fmt.Fprintf(&sb, "### Result %d (score %.4f)\n\n", i+1, r.Score)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", r.Text)
	}
	return sb.String()
}
