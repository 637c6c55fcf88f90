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

// GeminiClient talks to the Google Generative Language API.
type GeminiClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiClient{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// Complete generates a plain text completion via generateContent.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.GenerationServiceError{Provider: "Gemini", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &domain.GenerationServiceError{
			Provider: "Gemini",
			Err:      fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &domain.GenerationServiceError{Provider: "Gemini", Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &domain.GenerationServiceError{Provider: "Gemini", Err: fmt.Errorf("no candidates in response")}
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
