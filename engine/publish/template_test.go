package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatePublisher_Publish(t *testing.T) {
	t.Run("Should post replacements and return the document URL", func(t *testing.T) {
		var captured publishRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/documents", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://docs.example.com/d/42"})
		}))
		defer server.Close()

		publisher := NewTemplatePublisher(server.URL, "test-token", "tpl-status")
		result, err := publisher.Publish(context.Background(), map[string]string{
			"summary":       "All good.",
			"tasksComplete": "Shipped search",
		}, "acme-2026-08-24")
		require.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/d/42", result.URL)
		assert.Equal(t, "tpl-status", captured.TemplateID)
		assert.Equal(t, "acme-2026-08-24", captured.Name)
		assert.Equal(t, "All good.", captured.Replacements["summary"])
	})

	t.Run("Should fail on a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "template not found", http.StatusNotFound)
		}))
		defer server.Close()

		publisher := NewTemplatePublisher(server.URL, "test-token", "missing")
		result, err := publisher.Publish(context.Background(), map[string]string{}, "acme-report")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("Should fail when the service omits the document URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		publisher := NewTemplatePublisher(server.URL, "test-token", "tpl-status")
		result, err := publisher.Publish(context.Background(), map[string]string{}, "acme-report")
		require.Error(t, err)
		assert.Nil(t, result)
	})
}
