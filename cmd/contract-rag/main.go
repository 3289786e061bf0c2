// Package main provides the contract ingestion and query CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/contract-rag/internal/checkpoint"
	"github.com/bull/contract-rag/internal/chunker"
	"github.com/bull/contract-rag/internal/config"
	"github.com/bull/contract-rag/internal/embedding"
	"github.com/bull/contract-rag/internal/ingest"
	"github.com/bull/contract-rag/internal/ledger"
	"github.com/bull/contract-rag/internal/metadata"
	"github.com/bull/contract-rag/internal/pdf"
	"github.com/bull/contract-rag/internal/rag"
	"github.com/bull/contract-rag/internal/vectorstore"
)

var rootCmd = &cobra.Command{
	Use:   "contract-rag",
	Short: "Contract document ingestion and question answering",
	Long:  "CLI for ingesting contract PDFs into Qdrant and querying them with retrieval-augmented generation",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a PDF file or a directory of PDFs",
	Long: `Ingests contract PDFs into the vector store.

For each file this command:
1. Fingerprints the content and skips files already ingested
2. Extracts document metadata and per-page text
3. Splits pages into overlapping chunks
4. Writes a processing checkpoint to the processed data directory
5. Embeds the chunks and stores them in Qdrant
6. Records the outcome in the ingestion ledger

Environment variables:
  QDRANT_HOST     Qdrant hostname (default: localhost)
  QDRANT_PORT     Qdrant gRPC port (default: 6334)
  DATABASE_URL    Postgres connection string for the ledger (required)
  OPENAI_API_KEY  OpenAI API key for embeddings (required)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question over the ingested contracts",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the ingestion ledger and vector counts",
	RunE:  runStatus,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the ingestion ledger and the vector collection",
	Long:  "Administrative command. Deletes every ledger record and recreates the vector collection empty, so all documents can be re-ingested.",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()
	logger := slog.Default()

	path := cfg.RawDir
	if len(args) > 0 {
		path = args[0]
	}

	led, err := ledger.NewPostgresLedger(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connecting to ledger: %w", err)
	}
	defer led.Close()

	index, err := vectorstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		return fmt.Errorf("connecting to Qdrant: %w", err)
	}
	defer index.Close()

	if err := index.EnsureCollection(ctx, cfg.Collection); err != nil {
		return fmt.Errorf("ensuring collection: %w", err)
	}

	client, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("creating embedding client: %w", err)
	}

	pipeline := ingest.NewPipeline(
		led,
		metadata.NewExtractor(pdf.InfoReader{}, logger),
		pdf.NewLoader(logger),
		chunker.New(cfg.ChunkWindow, cfg.ChunkOverlap),
		checkpoint.NewStore(cfg.ProcessedDir, logger),
		embedding.NewEmbedder(client, 0),
		index,
		cfg.Collection,
		logger,
	)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if !info.IsDir() {
		outcome := pipeline.IngestFile(ctx, path)
		switch outcome.Disposition {
		case ingest.Ingested:
			fmt.Printf("Ingested %s: %d chunks (checkpoint at %s)\n", path, outcome.ChunkCount, outcome.CheckpointPath)
		case ingest.Skipped:
			fmt.Printf("Skipped %s: already ingested (fingerprint %s)\n", path, outcome.Fingerprint)
		case ingest.Failed:
			return fmt.Errorf("ingesting %s: %w", path, outcome.Err)
		}
		return nil
	}

	fmt.Printf("Ingesting PDFs from %s...\n", path)
	result, err := pipeline.IngestDir(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Ingestion complete")
	fmt.Printf("  Files:    %d\n", result.TotalFiles)
	fmt.Printf("  Ingested: %d\n", result.Ingested)
	fmt.Printf("  Skipped:  %d\n", result.Skipped)
	fmt.Printf("  Chunks:   %d\n", result.TotalChunks)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if len(result.Failed) > 0 {
		fmt.Println()
		fmt.Println("Failed files:")
		for _, failed := range result.Failed {
			fmt.Printf("  - %s: %s\n", failed.Path, failed.Reason)
		}
	}

	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()
	logger := slog.Default()

	index, err := vectorstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		return fmt.Errorf("connecting to Qdrant: %w", err)
	}
	defer index.Close()

	client, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("creating embedding client: %w", err)
	}

	retriever := rag.NewRetriever(embedding.NewEmbedder(client, 0), index, cfg.Collection, cfg.TopK, logger)
	generator := rag.NewGenerator(rag.NewOpenAIChat(client.Client(), ""), logger)
	pipeline := rag.NewPipeline(retriever, generator, logger)

	result, err := pipeline.AnswerQuery(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println(result.Response)
	fmt.Println()
	fmt.Printf("(grounded on %d retrieved passages)\n", result.NumDocumentsRetrieved)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()
	logger := slog.Default()

	led, err := ledger.NewPostgresLedger(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connecting to ledger: %w", err)
	}
	defer led.Close()

	records, err := led.List(ctx)
	if err != nil {
		return fmt.Errorf("listing ledger records: %w", err)
	}

	fmt.Printf("Documents: %d\n", len(records))
	for _, rec := range records {
		line := fmt.Sprintf("  %-9s %s (%d chunks)", rec.Status, rec.Filename, rec.ChunkCount)
		if rec.ErrorMessage != "" {
			line += " - " + rec.ErrorMessage
		}
		fmt.Println(line)
	}

	// The vector count is best-effort: the ledger remains readable when
	// Qdrant is down.
	index, err := vectorstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		fmt.Printf("Vectors: unavailable (%v)\n", err)
		return nil
	}
	defer index.Close()

	count, err := index.Count(ctx, cfg.Collection)
	if err != nil {
		fmt.Printf("Vectors: unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("Vectors: %d in collection %q\n", count, cfg.Collection)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()
	logger := slog.Default()

	led, err := ledger.NewPostgresLedger(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connecting to ledger: %w", err)
	}
	defer led.Close()

	index, err := vectorstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		return fmt.Errorf("connecting to Qdrant: %w", err)
	}
	defer index.Close()

	fmt.Println("Clearing vector collection...")
	if err := index.ClearCollection(ctx, cfg.Collection); err != nil {
		return fmt.Errorf("clearing collection: %w", err)
	}

	fmt.Println("Clearing ingestion ledger...")
	if err := led.Reset(ctx); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}

	fmt.Println("Reset complete. All documents can be re-ingested.")
	return nil
}
