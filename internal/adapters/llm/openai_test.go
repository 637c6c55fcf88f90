package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
)

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o", payload["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "gpt-4o")
	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello back", text)
}

func TestOpenAICompleteWithTools_ParsesToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload["tools"], 1)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"tool_calls": []map[string]any{
						{
							"id":   "call_1",
							"type": "function",
							"function": map[string]any{
								"name":      "GMAIL_SEND_EMAIL",
								"arguments": `{"to":"a@b.c"}`,
							},
						},
					},
				}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "")
	resp, err := client.CompleteWithTools(context.Background(), "send an email", []domain.ToolDefinition{
		{Name: "GMAIL_SEND_EMAIL", Description: "Send an email via Gmail"},
	})
	require.NoError(t, err)

	assert.True(t, resp.RequestsTools())
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "GMAIL_SEND_EMAIL", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"to":"a@b.c"}`, resp.ToolCalls[0].Arguments)
}

func TestOpenAIComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "")
	_, err := client.Complete(context.Background(), "hello")

	var genErr *domain.GenerationServiceError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "OpenAI", genErr.Provider)
	assert.Contains(t, genErr.Error(), "429")
}

func TestGeminiComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]string{{"text": "generated"}},
				}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "test-key", "")
	text, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
}
