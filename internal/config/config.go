package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bull/contract-rag/internal/chunker"
	"github.com/bull/contract-rag/internal/rag"
	"github.com/bull/contract-rag/internal/vectorstore"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	QdrantHost  string
	QdrantPort  int
	DatabaseURL string

	RawDir       string
	ProcessedDir string

	Collection   string
	ChunkWindow  int
	ChunkOverlap int
	TopK         int

	Port string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. A missing .env file is not an error; missing DATABASE_URL is
// surfaced by the ledger when it first connects.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RawDir:       getEnv("RAW_DATA_DIR", "data/raw"),
		ProcessedDir: getEnv("PROCESSED_DATA_DIR", "data/processed"),
		Collection:   getEnv("QDRANT_COLLECTION", vectorstore.DefaultCollection),
		ChunkWindow:  getEnvInt("CHUNK_SIZE", chunker.DefaultWindow),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", chunker.DefaultOverlap),
		TopK:         getEnvInt("RETRIEVAL_TOP_K", rag.DefaultTopK),
		Port:         getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
