package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should load defaults when no environment is set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, 12000, cfg.Summarize.ChunkSize)
		assert.Equal(t, 0, cfg.Summarize.ChunkOverlap)
		assert.Equal(t, 4, cfg.Summarize.Concurrency)
		assert.Equal(t, 2*time.Minute, cfg.LLM.RequestTimeout)
	})

	t.Run("Should let environment variables override defaults", func(t *testing.T) {
		t.Setenv("DIGEST_SERVER_PORT", "9091")
		t.Setenv("DIGEST_SUMMARIZE_CHUNK_SIZE", "500")
		t.Setenv("DIGEST_LLM_MODEL", "gpt-4o-mini")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9091, cfg.Server.Port)
		assert.Equal(t, 500, cfg.Summarize.ChunkSize)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	})

	t.Run("Should reject an out-of-range temperature", func(t *testing.T) {
		t.Setenv("DIGEST_LLM_TEMPERATURE", "1.5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestTransformEnvKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"SUMMARIZE_CHUNK_SIZE", "summarize.chunk_size"},
		{"LLM_REQUEST_TIMEOUT", "llm.request_timeout"},
		{"PORT", "port"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, transformEnvKey(tc.in), "input %q", tc.in)
	}
}
