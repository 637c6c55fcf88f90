package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Client talks to the Composio backend API: OAuth connections, tool
// catalogs and action execution against the connected applications.
type Client struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	entityID string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		entityID: "default",
	}
}

// Connect starts the OAuth flow for an application on the default entity.
func (c *Client) Connect(ctx context.Context, app string) error {
	payload := map[string]any{
		"appName":  app,
		"entityId": c.entityID,
	}

	var result struct {
		ConnectionID string `json:"connectionId"`
		RedirectURL  string `json:"redirectUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/connectedAccounts", payload, &result); err != nil {
		return fmt.Errorf("connect %s: %w", app, err)
	}
	return nil
}

// ListTools fetches the tool catalog for the given scope: an explicit
// action list, or every action of one application. Returns the toolset
// handle needed later to execute calls plus the tool definitions for the
// model.
func (c *Client) ListTools(ctx context.Context, spec domain.ToolCatalogSpec) (domain.ToolSet, []domain.ToolDefinition, error) {
	q := url.Values{}
	if len(spec.Actions) > 0 {
		q.Set("actions", strings.Join(spec.Actions, ","))
	} else if spec.App != "" {
		q.Set("appNames", spec.App)
	}

	var result struct {
		Items []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			Parameters  map[string]any `json:"parameters"`
		} `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/actions?"+q.Encode(), nil, &result); err != nil {
		return domain.ToolSet{}, nil, err
	}

	tools := make([]domain.ToolDefinition, 0, len(result.Items))
	names := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		tools = append(tools, domain.ToolDefinition{
			Name:        item.Name,
			Description: item.Description,
			Parameters:  item.Parameters,
		})
		names = append(names, item.Name)
	}

	toolset := domain.ToolSet{
		ID:      spec.Scope(),
		Entity:  c.entityID,
		Actions: names,
	}
	return toolset, tools, nil
}

// ExecuteToolCall runs every tool call the model requested against the
// live applications. A single call returns its result directly; several
// calls return a slice in request order. A failing call aborts the run
// since side effects may already be partial.
func (c *Client) ExecuteToolCall(ctx context.Context, resp domain.ToolCallResponse, toolset domain.ToolSet) (any, error) {
	results := make([]any, 0, len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		var input map[string]any
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil {
				return nil, &domain.ToolExecutionError{Tool: call.Name, Err: fmt.Errorf("parse arguments: %w", err)}
			}
		}

		result, err := c.executeAction(ctx, call.Name, input)
		if err != nil {
			return nil, &domain.ToolExecutionError{Tool: call.Name, Err: err}
		}
		results = append(results, result)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// SendEmail dispatches an email through the connected Gmail account.
func (c *Client) SendEmail(ctx context.Context, msg domain.Email) (domain.SendResult, error) {
	input := map[string]any{
		"subject": msg.Subject,
		"body":    msg.Body,
	}
	if msg.To != "" {
		input["recipient_email"] = msg.To
	}
	if len(msg.CC) > 0 {
		input["cc"] = msg.CC
	}
	if len(msg.BCC) > 0 {
		input["bcc"] = msg.BCC
	}

	result, err := c.executeAction(ctx, "GMAIL_SEND_EMAIL", input)
	if err != nil {
		return domain.SendResult{}, &domain.ToolExecutionError{Tool: "GMAIL_SEND_EMAIL", Err: err}
	}

	send := domain.SendResult{Success: true}
	if fields, ok := result.(map[string]any); ok {
		if id, ok := fields["messageId"].(string); ok {
			send.MessageID = id
		}
	}
	return send, nil
}

// ConnectionStatus reports which applications have an active connection.
func (c *Client) ConnectionStatus(ctx context.Context) (map[string]bool, error) {
	var result struct {
		Items []struct {
			AppName string `json:"appName"`
			Status  string `json:"status"`
		} `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/connectedAccounts?entityId="+url.QueryEscape(c.entityID), nil, &result); err != nil {
		return nil, err
	}

	status := make(map[string]bool, len(domain.ComposioApps))
	for _, app := range domain.ComposioApps {
		status[app] = false
	}
	for _, item := range result.Items {
		status[item.AppName] = item.Status == "ACTIVE"
	}
	return status, nil
}

// Disconnect removes the connection for an application.
func (c *Client) Disconnect(ctx context.Context, app string) (bool, error) {
	path := "/v1/connectedAccounts/" + url.PathEscape(app) + "?entityId=" + url.QueryEscape(c.entityID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return false, fmt.Errorf("disconnect %s: %w", app, err)
	}
	return true, nil
}

func (c *Client) executeAction(ctx context.Context, action string, input map[string]any) (any, error) {
	payload := map[string]any{
		"entityId": c.entityID,
		"input":    input,
	}

	var result struct {
		Successful bool           `json:"successfull"`
		Error      string         `json:"error"`
		Data       map[string]any `json:"data"`
	}
	path := "/v2/actions/" + url.PathEscape(action) + "/execute"
	if err := c.do(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("action failed: %s", result.Error)
	}
	if result.Data != nil {
		return result.Data, nil
	}
	return map[string]any{"successful": result.Successful}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
