package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"repolens/internal/embedder"
	"repolens/internal/llm"
	"repolens/internal/processor"
	"repolens/internal/rag"
)

var (
	flagRole string
	flagTopK int
)

var askCmd = &cobra.Command{
	Use:   "ask <path> [question]",
	Short: "Answer questions about a repository",
	Long: `ask chunks the repository, embeds every chunk with the configured
Ollama embedding model, and answers either a single question or the
full question set of a role template (see --role).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if len(args) < 2 && flagRole == "" {
			return fmt.Errorf("provide a question or pick a role template with --role (one of: %s)",
				strings.Join(rag.Roles(), ", "))
		}

		var questions []string
		if flagRole != "" {
			qs, ok := rag.QuestionTemplates[flagRole]
			if !ok {
				return fmt.Errorf("unknown role %q (one of: %s)", flagRole, strings.Join(rag.Roles(), ", "))
			}
			questions = qs
		}
		if len(args) == 2 {
			questions = append(questions, args[1])
		}

		ctx := cmd.Context()

		proc := processor.New(root, processor.Options{
			Workers:     cfg.Workers,
			ExcludeDirs: cfg.Chunking.ExcludeDirs,
			ChunkSize:   cfg.Chunking.ChunkSize,
			CodeOverlap: cfg.Chunking.CodeOverlap,
			DocOverlap:  cfg.Chunking.DocOverlap,
		}, slog.Default())

		fmt.Printf("Chunking %s...\n", root)
		chunks, err := proc.ProcessRepository(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Embedding %d chunks...\n", len(chunks))

		emb := embedder.NewOllama(cfg.Ollama.Host, cfg.Ollama.EmbeddingModel,
			time.Duration(cfg.Ollama.Timeout)*time.Second)
		corpus, err := rag.BuildCorpus(ctx, chunks, emb)
		if err != nil {
			return err
		}

		chat := llm.NewOllamaChat(cfg.Ollama.Host, cfg.Ollama.ChatModel)

		topK := flagTopK
		if topK == 0 {
			topK = cfg.Retrieval.TopK
		}

		renderer := newAnswerRenderer()
		for i, q := range questions {
			if len(questions) > 1 {
				fmt.Printf("\n[%d/%d] %s\n\n", i+1, len(questions), q)
			}
			answer, _, err := rag.Answer(ctx, q, corpus, emb, chat, topK)
			if err != nil {
				return fmt.Errorf("answer %q: %w", q, err)
			}
			fmt.Print(renderAnswer(renderer, answer))
		}
		return nil
	},
}

// newAnswerRenderer builds a markdown renderer for answers. A nil
// renderer means answers print raw.
func newAnswerRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	return r
}

func renderAnswer(r *glamour.TermRenderer, answer string) string {
	if r == nil {
		return answer + "\n"
	}
	rendered, err := r.Render(answer)
	if err != nil {
		return answer + "\n"
	}
	return rendered
}

func init() {
	askCmd.Flags().StringVar(&flagRole, "role", "", "answer a role's full question set (programmer, ceo, sales_manager)")
	askCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "chunks to retrieve per question (default from config)")
	rootCmd.AddCommand(askCmd)
}
