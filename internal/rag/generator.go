package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/contract-rag/internal/domain"
)

// systemInstruction pins the model to the retrieved context. The "say so"
// clause matters: without it the model pads thin context with its own
// training data.
const systemInstruction = "You are a contract analysis assistant. Answer the " +
	"question using only the context provided below. If the context does not " +
	"contain the answer, say that you don't know based on the available documents."

// LLM produces a completion for a fully assembled prompt.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Generator assembles retrieved chunks into a labeled context block and
// asks the LLM to answer from it.
type Generator struct {
	llm    LLM
	logger *slog.Logger
}

func NewGenerator(llm LLM, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, logger: logger}
}

// BuildContext joins the retrieved chunks into one block, each prefixed
// with an ordinal label so the model can cite them.
func BuildContext(docs []domain.RetrievedDocument) string {
	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("Document %d:\n%s", i+1, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}

// Generate answers query from contextBlock with a single LLM call. There is
// no retry here: the embedding client already absorbs rate limits, and a
// generation failure should surface to the caller immediately.
func (g *Generator) Generate(ctx context.Context, query, contextBlock string) (string, error) {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, query)

	answer, err := g.llm.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		return "", domain.Wrap(domain.CodeGeneration, "", err)
	}

	answer = strings.TrimSpace(answer)
	g.logger.Debug("generated answer", "prompt_len", len(prompt), "answer_len", len(answer))
	return answer, nil
}
