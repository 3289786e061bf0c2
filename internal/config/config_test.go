package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "documents", cfg.Collection)
	assert.Equal(t, 1000, cfg.ChunkWindow)
	assert.Equal(t, 150, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, "data/raw", cfg.RawDir)
	assert.Equal(t, "data/processed", cfg.ProcessedDir)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("DATABASE_URL", "postgres://rag:rag@db/rag")

	cfg := Load()

	assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.Equal(t, 500, cfg.ChunkWindow)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, "postgres://rag:rag@db/rag", cfg.DatabaseURL)
}

func TestLoadIgnoresUnparseableInt(t *testing.T) {
	t.Setenv("QDRANT_PORT", "not-a-port")
	assert.Equal(t, 6334, Load().QdrantPort)
}
