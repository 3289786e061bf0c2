package rag

import (
	"context"
	"log/slog"

	"github.com/bull/contract-rag/internal/domain"
)

// Pipeline answers questions over the ingested corpus: retrieve, assemble
// context, generate.
type Pipeline struct {
	retriever *Retriever
	generator *Generator
	logger    *slog.Logger
}

func NewPipeline(retriever *Retriever, generator *Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{retriever: retriever, generator: generator, logger: logger}
}

// AnswerQuery runs the full query path. Any stage failure returns a
// RAG_QUERY error and no partial result: callers either get a complete
// answer or a single error to report.
func (p *Pipeline) AnswerQuery(ctx context.Context, query string) (*domain.RAGResult, error) {
	docs, err := p.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, domain.Wrap(domain.CodeRAGQuery, "", err)
	}

	contextBlock := BuildContext(docs)

	answer, err := p.generator.Generate(ctx, query, contextBlock)
	if err != nil {
		return nil, domain.Wrap(domain.CodeRAGQuery, "", err)
	}

	p.logger.Info("answered query", "retrieved", len(docs), "answer_len", len(answer))
	return &domain.RAGResult{
		Query:                 query,
		Context:               contextBlock,
		Response:              answer,
		NumDocumentsRetrieved: len(docs),
	}, nil
}
