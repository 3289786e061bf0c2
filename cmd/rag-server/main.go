// Package main provides the contract RAG server entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bull/contract-rag/internal/api"
	"github.com/bull/contract-rag/internal/config"
	"github.com/bull/contract-rag/internal/embedding"
	"github.com/bull/contract-rag/internal/ledger"
	mcpserver "github.com/bull/contract-rag/internal/mcp"
	"github.com/bull/contract-rag/internal/rag"
	"github.com/bull/contract-rag/internal/vectorstore"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.Load()

	index, err := vectorstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer index.Close()

	if err := index.EnsureCollection(ctx, cfg.Collection); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	client, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}

	led, err := ledger.NewPostgresLedger(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatalf("failed to connect to ledger: %v", err)
	}
	defer led.Close()

	retriever := rag.NewRetriever(embedding.NewEmbedder(client, 0), index, cfg.Collection, cfg.TopK, nil)
	generator := rag.NewGenerator(rag.NewOpenAIChat(client.Client(), ""), nil)
	queries := rag.NewPipeline(retriever, generator, nil)

	server := mcpserver.NewServer(&mcpserver.Config{
		Answerer:   queries,
		Retriever:  retriever,
		Ledger:     led,
		Counter:    index,
		Collection: cfg.Collection,
	})

	router := api.NewRouter(api.RouterConfig{
		Handlers: api.NewHandlers(queries, led, nil),
		Health:   mcpserver.NewHealthHandler(index),
		Landing:  mcpserver.NewLandingHandler(),
		MCP:      mcpserver.NewHTTPHandler(server, nil),
	})

	// Check if running in server mode (HTTP) or stdio mode (local development)
	serverMode := os.Getenv("SERVER_MODE") == "true"

	if serverMode {
		// HTTP mode: serve the JSON API and MCP over HTTP for remote clients
		addr := "0.0.0.0:" + cfg.Port
		log.Printf("Starting HTTP server on %s (API at /api, MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP over stdin/stdout for local clients, with the
		// HTTP surface in the background for health checks and the JSON API
		go func() {
			addr := "0.0.0.0:" + cfg.Port
			log.Printf("Starting HTTP server on %s", addr)
			if err := http.ListenAndServe(addr, router); err != nil {
				log.Printf("HTTP server error: %v", err)
			}
		}()

		log.Println("Starting Contract RAG MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}
