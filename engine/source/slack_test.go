package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackSource_Fetch(t *testing.T) {
	ctx := context.Background()
	window := Query{
		From: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 6, 23, 59, 59, 0, time.UTC),
	}

	t.Run("Should page through history and render messages oldest first", func(t *testing.T) {
		var requests int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			require.Equal(t, "/conversations.history", r.URL.Path)
			require.Equal(t, "C123", r.URL.Query().Get("channel"))
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("cursor") == "" {
				json.NewEncoder(w).Encode(map[string]any{
					"ok": true,
					"messages": []map[string]string{
						{"user": "bob", "text": "finished the export job", "ts": "2"},
					},
					"response_metadata": map[string]string{"next_cursor": "page2"},
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"ok": true,
				"messages": []map[string]string{
					{"user": "alice", "text": "started the export job", "ts": "1"},
				},
				"response_metadata": map[string]string{"next_cursor": ""},
			})
		}))
		defer srv.Close()

		src := NewSlackSource("xoxb-test", srv.URL, "C123")
		docs, err := src.Fetch(ctx, window)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, 2, requests)
		assert.Equal(t, "alice: started the export job\nbob: finished the export job", docs[0].Content)
		assert.Equal(t, "slack", docs[0].Metadata["source"])
		assert.Equal(t, "C123", docs[0].Metadata["channel"])
		assert.Equal(t, "2025-06-02", docs[0].Metadata["from"])
	})

	t.Run("Should return nothing for an empty window", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "messages": []any{}})
		}))
		defer srv.Close()

		src := NewSlackSource("xoxb-test", srv.URL, "C123")
		docs, err := src.Fetch(ctx, window)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("Should surface a Slack API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
		}))
		defer srv.Close()

		src := NewSlackSource("xoxb-test", srv.URL, "missing")
		_, err := src.Fetch(ctx, window)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel_not_found")
	})
}
