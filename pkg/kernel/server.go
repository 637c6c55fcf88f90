package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/smartcrm/kernel/internal/config"
	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
	"github.com/smartcrm/kernel/internal/core/services"
)

// Server is the HTTP surface of the agent kernel: agent runs with streamed
// progress, tool-call execution, result rendering, CRM records, connections
// and settings.
type Server struct {
	logger     *slog.Logger
	dispatcher *services.Dispatcher
	toolRunner *services.ToolRunner
	eventBus   *services.EventBus
	settings   *config.SettingsStore
	source     ports.ProviderSource
	repo       ports.Repository
}

func NewServer(
	logger *slog.Logger,
	dispatcher *services.Dispatcher,
	toolRunner *services.ToolRunner,
	eventBus *services.EventBus,
	settings *config.SettingsStore,
	source ports.ProviderSource,
	repo ports.Repository,
) *Server {
	return &Server{
		logger:     logger,
		dispatcher: dispatcher,
		toolRunner: toolRunner,
		eventBus:   eventBus,
		settings:   settings,
		source:     source,
		repo:       repo,
	}
}

// Handler mounts every route on a ServeMux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Agents
	mux.HandleFunc("GET /v1/agents", s.handleListAgents)
	mux.HandleFunc("POST /v1/agents/{id}/run", s.handleRunAgent)
	mux.HandleFunc("GET /v1/runs/{id}/events", s.handleRunSSE)

	// Tool execution
	mux.HandleFunc("POST /v1/tools/run", s.handleRunWithTools)
	mux.HandleFunc("POST /v1/tools/batch", s.handleRunBatch)

	// Rendering
	mux.HandleFunc("POST /v1/render", s.handleRender)

	// Integration connections
	mux.HandleFunc("GET /v1/connections", s.handleConnectionStatus)
	mux.HandleFunc("POST /v1/connections/{app}", s.handleConnect)
	mux.HandleFunc("DELETE /v1/connections/{app}", s.handleDisconnect)
	mux.HandleFunc("POST /v1/email/send", s.handleSendEmail)

	// Settings
	mux.HandleFunc("GET /v1/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /v1/settings", s.handleUpdateSettings)

	s.mountCRMRoutes(mux)

	return mux
}

type runAgentRequest struct {
	RunID string            `json:"runId,omitempty"`
	Input domain.AgentInput `json:"input,omitempty"`
}

type runAgentResponse struct {
	RunID  string                `json:"runId"`
	Steps  []domain.ProgressStep `json:"steps"`
	Result domain.AgentResult    `json:"result"`
	Render domain.RenderPlan     `json:"render"`
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.dispatcher.IDs()})
}

// handleRunAgent executes a generation routine synchronously. When the
// caller supplies a runId it can subscribe to /v1/runs/{id}/events first
// and watch the step log stream while this request is in flight.
func (s *Server) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	id := domain.AgentID(r.PathValue("id"))

	// An empty body is legal: every routine tolerates a nil input.
	var req runAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.RunID == "" {
		req.RunID = domain.NewRecordID()
	}

	sink := services.NewProgressLog(req.RunID, s.eventBus)
	result, err := s.dispatcher.Dispatch(r.Context(), id, req.Input, sink)
	if err != nil {
		s.publishError(req.RunID, err)

		var unknownErr *domain.UnknownAgentError
		if errors.As(err, &unknownErr) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	plan := services.ClassifyAndRender(result)
	s.publishResult(req.RunID, result)

	writeJSON(w, http.StatusOK, runAgentResponse{
		RunID:  req.RunID,
		Steps:  sink.Steps(),
		Result: result,
		Render: plan,
	})
}

// handleRunSSE streams a run's progress events until the client disconnects.
func (s *Server) handleRunSSE(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, unsub := s.eventBus.Subscribe(runID)
	defer unsub()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			payload := evt.Data
			if payload == "" {
				raw, err := json.Marshal(evt.Step)
				if err != nil {
					continue
				}
				payload = string(raw)
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, payload)
			flusher.Flush()

			// Terminal events end the stream.
			if evt.Type == services.EventTypeResult || evt.Type == services.EventTypeError {
				return
			}
		}
	}
}

type toolRunRequest struct {
	Agent   string   `json:"agent"`
	Task    string   `json:"task"`
	Actions []string `json:"actions,omitempty"`
	App     string   `json:"app,omitempty"`
}

func (r toolRunRequest) spec() domain.ToolCatalogSpec {
	return domain.ToolCatalogSpec{Actions: r.Actions, App: r.App}
}

func (s *Server) handleRunWithTools(w http.ResponseWriter, r *http.Request) {
	var req toolRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("task is required"))
		return
	}

	outcome, err := s.toolRunner.RunWithTools(r.Context(), req.Agent, req.Task, req.spec())
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	var req toolRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("task is required"))
		return
	}

	outcomes, failures, err := s.toolRunner.RunBatch(r.Context(), req.Task, req.spec())
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcomes": outcomes,
		"failures": failures,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var result domain.AgentResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, services.ClassifyAndRender(result))
}

func (s *Server) handleConnectionStatus(w http.ResponseWriter, r *http.Request) {
	provider, err := s.source.Integrations()
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}

	status, err := provider.ConnectionStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connections": status})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	app := r.PathValue("app")
	if !isKnownApp(app) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown app: %s", app))
		return
	}

	provider, err := s.source.Integrations()
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}

	if err := provider.Connect(r.Context(), app); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"app": app, "connected": true})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	app := r.PathValue("app")

	provider, err := s.source.Integrations()
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}

	ok, err := provider.Disconnect(r.Context(), app)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"app": app, "disconnected": ok})
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var msg domain.Email
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if msg.Subject == "" && msg.Body == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty message"))
		return
	}

	provider, err := s.source.Integrations()
	if err != nil {
		writeError(w, toolErrorStatus(err), err)
		return
	}

	result, err := provider.SendEmail(r.Context(), msg)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) publishResult(runID string, result domain.AgentResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	s.eventBus.Publish(services.Event{
		RunID: runID,
		Type:  services.EventTypeResult,
		Data:  string(raw),
	})
}

func (s *Server) publishError(runID string, err error) {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	s.eventBus.Publish(services.Event{
		RunID: runID,
		Type:  services.EventTypeError,
		Data:  string(raw),
	})
}

func isKnownApp(app string) bool {
	for _, known := range domain.ComposioApps {
		if known == app {
			return true
		}
	}
	return false
}

// toolErrorStatus maps the domain error taxonomy onto HTTP statuses.
func toolErrorStatus(err error) int {
	var missing *domain.MissingCredentialError
	if errors.As(err, &missing) {
		return http.StatusPreconditionFailed
	}
	var resolution *domain.ToolResolutionError
	if errors.As(err, &resolution) {
		return http.StatusBadGateway
	}
	var execution *domain.ToolExecutionError
	if errors.As(err, &execution) {
		return http.StatusBadGateway
	}
	var generation *domain.GenerationServiceError
	if errors.As(err, &generation) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
