package composio

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

func TestListTools_ByApp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/actions", r.URL.Path)
		assert.Equal(t, "gmail", r.URL.Query().Get("appNames"))
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"name": "GMAIL_SEND_EMAIL", "description": "Send an email"},
				{"name": "GMAIL_CREATE_DRAFT", "description": "Create a draft"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	toolset, tools, err := client.ListTools(context.Background(), domain.ToolCatalogSpec{App: "gmail"})
	require.NoError(t, err)

	assert.Equal(t, "app:gmail", toolset.ID)
	assert.Equal(t, []string{"GMAIL_SEND_EMAIL", "GMAIL_CREATE_DRAFT"}, toolset.Actions)
	require.Len(t, tools, 2)
	assert.Equal(t, "GMAIL_SEND_EMAIL", tools[0].Name)
}

func TestListTools_ByActions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SLACK_POST_MESSAGE,SLACK_LIST_CHANNELS", r.URL.Query().Get("actions"))
		json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, tools, err := client.ListTools(context.Background(), domain.ToolCatalogSpec{
		Actions: []string{"SLACK_POST_MESSAGE", "SLACK_LIST_CHANNELS"},
	})
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestExecuteToolCall_SingleCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/actions/GMAIL_SEND_EMAIL/execute", r.URL.Path)

		var payload struct {
			EntityID string         `json:"entityId"`
			Input    map[string]any `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "default", payload.EntityID)
		assert.Equal(t, "a@b.c", payload.Input["to"])

		json.NewEncoder(w).Encode(map[string]any{
			"successfull": true,
			"data":        map[string]any{"messageId": "msg_1"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	result, err := client.ExecuteToolCall(context.Background(), domain.ToolCallResponse{
		ToolCalls: []domain.ToolCall{
			{ID: "call_1", Name: "GMAIL_SEND_EMAIL", Arguments: `{"to":"a@b.c"}`},
		},
	}, domain.ToolSet{ID: "app:gmail"})
	require.NoError(t, err)

	data, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "msg_1", data["messageId"])
}

func TestExecuteToolCall_BadArguments(t *testing.T) {
	client := NewClient("http://unused.invalid", "test-key")
	_, err := client.ExecuteToolCall(context.Background(), domain.ToolCallResponse{
		ToolCalls: []domain.ToolCall{
			{ID: "call_1", Name: "SLACK_POST_MESSAGE", Arguments: "{not json"},
		},
	}, domain.ToolSet{})

	var execErr *domain.ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "SLACK_POST_MESSAGE", execErr.Tool)
}

func TestExecuteToolCall_ActionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "connection expired"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.ExecuteToolCall(context.Background(), domain.ToolCallResponse{
		ToolCalls: []domain.ToolCall{{ID: "c1", Name: "GMAIL_SEND_EMAIL", Arguments: "{}"}},
	}, domain.ToolSet{})

	var execErr *domain.ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "connection expired")
}

func TestSendEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/actions/GMAIL_SEND_EMAIL/execute", r.URL.Path)

		var payload struct {
			Input map[string]any `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Agent Response", payload.Input["subject"])
		assert.Equal(t, "ada@acme.com", payload.Input["recipient_email"])

		json.NewEncoder(w).Encode(map[string]any{
			"successfull": true,
			"data":        map[string]any{"messageId": "msg_42"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	result, err := client.SendEmail(context.Background(), domain.Email{
		Subject: "Agent Response",
		Body:    "hello",
		To:      "ada@acme.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "msg_42", result.MessageID)
}

func TestConnectionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/connectedAccounts", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"appName": "gmail", "status": "ACTIVE"},
				{"appName": "slack", "status": "EXPIRED"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	status, err := client.ConnectionStatus(context.Background())
	require.NoError(t, err)

	assert.True(t, status["gmail"])
	assert.False(t, status["slack"])
	assert.False(t, status["zoom"], "unconnected apps are reported, not omitted")
	assert.Len(t, status, len(domain.ComposioApps))
}

func TestDisconnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/connectedAccounts/slack", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	ok, err := client.Disconnect(context.Background(), "slack")
	require.NoError(t, err)
	assert.True(t, ok)
}
