package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// OpenAIClient talks to an OpenAI-compatible chat completions API.
// Works with: OpenAI, Azure OpenAI, Together AI, local Ollama /v1, etc.
type OpenAIClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewOpenAIClient creates a client against baseURL (e.g.
// https://api.openai.com/v1) using model for every request.
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIClient{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete generates a plain text completion for prompt.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	var result chatResponse
	if err := c.post(ctx, "/chat/completions", payload, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", &domain.GenerationServiceError{Provider: "OpenAI", Err: fmt.Errorf("no choices in response")}
	}
	return result.Choices[0].Message.Content, nil
}

// CompleteWithTools submits the task with the tool catalog attached and
// returns either the model's tool-call requests or its direct answer.
func (c *OpenAIClient) CompleteWithTools(ctx context.Context, task string, tools []domain.ToolDefinition) (domain.ToolCallResponse, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "user", Content: task},
		},
	}
	if len(tools) > 0 {
		wire := make([]map[string]any, 0, len(tools))
		for _, t := range tools {
			wire = append(wire, map[string]any{
				"type": "function",
				"function": map[string]any{
					"name":        t.Name,
					"description": t.Description,
					"parameters":  t.Parameters,
				},
			})
		}
		payload["tools"] = wire
	}

	var result chatResponse
	if err := c.post(ctx, "/chat/completions", payload, &result); err != nil {
		return domain.ToolCallResponse{}, err
	}
	if len(result.Choices) == 0 {
		return domain.ToolCallResponse{}, &domain.GenerationServiceError{Provider: "OpenAI", Err: fmt.Errorf("no choices in response")}
	}

	msg := result.Choices[0].Message
	resp := domain.ToolCallResponse{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, domain.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.GenerationServiceError{Provider: "OpenAI", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &domain.GenerationServiceError{
			Provider: "OpenAI",
			Err:      fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GenerationServiceError{Provider: "OpenAI", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
