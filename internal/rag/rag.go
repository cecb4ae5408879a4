// Package rag wires the retrieval pipeline together: embed the chunk
// corpus and the question, rank by cosine similarity, and build the
// prompt for the generative model.
package rag

import (
	"context"
	"fmt"
	"strings"

	"repolens/internal/chunk"
	"repolens/internal/embedder"
	"repolens/internal/llm"
	"repolens/internal/retriever"
)

const systemPrompt = `You are a repository analysis assistant. You answer questions about a codebase using the retrieved content provided below.

Ground every statement in the provided chunks and reference file paths when relevant. If the context doesn't contain enough information to answer, say so. Keep answers concise.`

// embedBatchSize caps how many chunk texts go to the embedder per call.
const embedBatchSize = 32

// BuildCorpus embeds every chunk's text and returns a retriever over
// the resulting candidates.
func BuildCorpus(ctx context.Context, chunks []chunk.Chunk, emb embedder.Embedder) (*retriever.Cosine, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	candidates := make([]retriever.Candidate, 0, len(texts))
	for i := 0; i < len(texts); i += embedBatchSize {
		end := min(i+embedBatchSize, len(texts))
		vectors, err := emb.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		for j, v := range vectors {
			candidates = append(candidates, retriever.Candidate{Text: texts[i+j], Vector: v})
		}
	}
	return retriever.NewCosine(candidates), nil
}

// Retrieve embeds the question and ranks it against the corpus.
func Retrieve(ctx context.Context, question string, corpus *retriever.Cosine, emb embedder.Embedder, topK int) ([]retriever.Result, error) {
	queryVec, err := emb.EmbedSingle(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return corpus.Retrieve(queryVec, topK), nil
}

// BuildMessages constructs the chat message list from retrieved chunks
// and the question.
func BuildMessages(results []retriever.Result, question string) []llm.Message {
	msgs := []llm.Message{{Role: "system", Content: systemPrompt}}

	if len(results) > 0 {
		var ctx strings.Builder
		ctx.WriteString("Here is the relevant repository context:\n\n")
		for i, r := range results {
			fmt.Fprintf(&ctx, "--- Chunk %d (score %.4f) ---\n", i+1, r.Score)
			ctx.WriteString(r.Text)
			ctx.WriteString("\n\n")
		}
		msgs = append(msgs, llm.Message{Role: "user", Content: ctx.String()})
		msgs = append(msgs, llm.Message{Role: "assistant", Content: "I've reviewed the repository context. What would you like to know?"})
	}

	msgs = append(msgs, llm.Message{Role: "user", Content: question})
	return msgs
}

// Answer runs the full retrieve-then-generate flow for one question.
func Answer(ctx context.Context, question string, corpus *retriever.Cosine, emb embedder.Embedder, chat llm.Chat, topK int) (string, []retriever.Result, error) {
	results, err := Retrieve(ctx, question, corpus, emb, topK)
	if err != nil {
		return "", nil, err
	}

	answer, err := chat.Generate(ctx, BuildMessages(results, question))
	if err != nil {
		return "", results, fmt.Errorf("generate answer: %w", err)
	}
	return answer, results, nil
}
