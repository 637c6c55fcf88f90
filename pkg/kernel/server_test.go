package kernel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/adapters/duckdb"
	"github.com/smartcrm/kernel/internal/adapters/providers"
	appconfig "github.com/smartcrm/kernel/internal/config"
	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/services"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	repo, err := duckdb.NewRepository("")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	t.Setenv("SMARTCRM_SECRET_KEY", "test-key-for-server")
	secretKey, err := appconfig.NewSecretKey()
	require.NoError(t, err)
	settings, err := appconfig.NewSettingsStore(logger, repo, secretKey)
	require.NoError(t, err)

	source := providers.NewSource(settings)
	bus := services.NewEventBus(logger)

	dispatcher := services.NewDispatcher(logger)
	services.RegisterBuiltins(dispatcher, 0, source)

	toolRunner := services.NewToolRunner(logger, source, nil)

	return NewServer(logger, dispatcher, toolRunner, bus, settings, source, repo).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func TestListAgents(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "GET", "/v1/agents", "")
	require.Equal(t, http.StatusOK, w.Code)

	agents, ok := resp["agents"].([]any)
	require.True(t, ok)
	assert.Len(t, agents, len(domain.AllAgentIDs()))
	assert.Equal(t, "lead-enrichment", agents[0])
}

func TestRunAgent(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "POST", "/v1/agents/lead-scoring/run",
		`{"input": {"name": "Ada", "company": "Acme", "position": "CEO", "email": "ada@acme.com"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotEmpty(t, resp["runId"])

	steps, ok := resp["steps"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, steps)
	last := steps[len(steps)-1].(map[string]any)
	assert.Equal(t, "Complete", last["result"])

	result := resp["result"].(map[string]any)
	assert.Equal(t, "structured", result["kind"])
	fields := result["fields"].(map[string]any)
	assert.Contains(t, fields, "leadScore")

	render := resp["render"].(map[string]any)
	assert.Equal(t, "generic", render["kind"])
}

func TestRunAgent_EmptyBody(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "POST", "/v1/agents/follow-up/run", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := resp["result"].(map[string]any)
	assert.Equal(t, "structured", result["kind"])
}

func TestRunAgent_Unknown(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "POST", "/v1/agents/no-such-agent/run", `{}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, resp["error"], "unknown agent")
}

func TestRenderEndpoint(t *testing.T) {
	handler := testServer(t)

	body := `{"kind": "text", "text": "Subject: Hello\n\nHi Ada,\n\nShort note.\n\nRegards,\nSam"}`
	w, resp := doJSON(t, handler, "POST", "/v1/render", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "email", resp["kind"])
}

func TestToolsRun_MissingCredential(t *testing.T) {
	handler := testServer(t)

	// No OpenAI key saved: the tool loop must fail fast.
	w, resp := doJSON(t, handler, "POST", "/v1/tools/run",
		`{"agent": "AI SDR Agent", "task": "reach out", "app": "gmail"}`)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, resp["error"], "OpenAI")
}

func TestToolsBatch_MissingCredential(t *testing.T) {
	handler := testServer(t)

	// With no key configured the batch aborts up front with 412.
	w, resp := doJSON(t, handler, "POST", "/v1/tools/batch",
		`{"task": "outreach", "app": "gmail"}`)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, resp["error"], "OpenAI")
}

func TestConnections_MissingCredential(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "GET", "/v1/connections", "")
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, resp["error"], "Composio")
}

func TestConnect_UnknownApp(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "POST", "/v1/connections/myspace", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["error"], "unknown app")
}

func TestSettings_MaskedRoundTrip(t *testing.T) {
	handler := testServer(t)

	w, resp := doJSON(t, handler, "PUT", "/v1/settings",
		`{"keys": {"openai": "sk-test-1234abcd"}, "model": "gpt-4o"}`)
	require.Equal(t, http.StatusOK, w.Code)

	keys := resp["keys"].(map[string]any)
	masked := keys["openai"].(string)
	assert.True(t, strings.HasPrefix(masked, "****"), "key must be masked in responses")
	assert.NotContains(t, masked, "sk-test-1234")

	// Round-tripping the masked config keeps the stored key.
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	w, resp = doJSON(t, handler, "PUT", "/v1/settings", string(raw))
	require.Equal(t, http.StatusOK, w.Code)
	keys = resp["keys"].(map[string]any)
	assert.Equal(t, masked, keys["openai"])
}

func TestDeals_CRUD(t *testing.T) {
	handler := testServer(t)

	w, created := doJSON(t, handler, "POST", "/v1/deals",
		`{"title": "Platform Rollout", "company": "Acme", "value": 12000, "stage": "qualified"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	dealID := created["id"].(string)
	require.NotEmpty(t, dealID)

	w, fetched := doJSON(t, handler, "GET", "/v1/deals/"+dealID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Platform Rollout", fetched["title"])

	w, _ = doJSON(t, handler, "PUT", "/v1/deals/"+dealID,
		`{"title": "Platform Rollout", "company": "Acme", "value": 15000, "stage": "proposal", "userId": "default"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, listed := doJSON(t, handler, "GET", "/v1/deals?stage=proposal", "")
	require.Equal(t, http.StatusOK, w.Code)
	deals := listed["deals"].([]any)
	require.Len(t, deals, 1)

	w, _ = doJSON(t, handler, "DELETE", "/v1/deals/"+dealID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, handler, "GET", "/v1/deals/"+dealID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyses_CreateAndList(t *testing.T) {
	handler := testServer(t)

	w, created := doJSON(t, handler, "POST", "/v1/analyses",
		`{"businessName": "Acme", "industry": "Technology", "analysisData": {"score": 82}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pending", created["status"])

	w, listed := doJSON(t, handler, "GET", "/v1/analyses", "")
	require.Equal(t, http.StatusOK, w.Code)
	analyses := listed["analyses"].([]any)
	require.Len(t, analyses, 1)
}
