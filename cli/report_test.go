package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Run("Should parse explicit dates", func(t *testing.T) {
		from, to, err := parseWindow("2026-08-17", "2026-08-24")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("Should default to the trailing week", func(t *testing.T) {
		from, to, err := parseWindow("", "")
		require.NoError(t, err)
		assert.True(t, from.Before(to))
		assert.Equal(t, 8*24*time.Hour, to.Sub(from))
	})

	t.Run("Should reject malformed dates", func(t *testing.T) {
		_, _, err := parseWindow("yesterday", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --from date")
	})
}

func TestRootCmd(t *testing.T) {
	t.Run("Should register serve and report subcommands", func(t *testing.T) {
		root := RootCmd()
		names := make([]string, 0, len(root.Commands()))
		for _, sub := range root.Commands() {
			names = append(names, sub.Name())
		}
		assert.Contains(t, names, "serve")
		assert.Contains(t, names, "report")
	})
}
