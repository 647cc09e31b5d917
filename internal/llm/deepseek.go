package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DeepSeekClient talks to the DeepSeek OpenAI-compatible chat API. It has
// no browsing capability, so CompleteFromURL always reports unsupported.
type DeepSeekClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Client = (*DeepSeekClient)(nil)

func NewDeepSeekClient(apiKey, model string, timeout time.Duration) *DeepSeekClient {
	return &DeepSeekClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.deepseek.com/v1",
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *DeepSeekClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("deepseek: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("deepseek: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Reason: ReasonNetworkError, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Reason: ReasonNetworkError, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &Error{Reason: ReasonMalformed, Err: fmt.Errorf("deepseek: failed to parse response: %w", err)}
	}

	if apiResp.Error != nil {
		return "", &Error{Reason: ReasonRefused, Err: fmt.Errorf("deepseek: %s: %s", apiResp.Error.Type, apiResp.Error.Message)}
	}

	if len(apiResp.Choices) == 0 {
		return "", &Error{Reason: ReasonMalformed, Err: fmt.Errorf("deepseek: empty response")}
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}

func (c *DeepSeekClient) CompleteFromURL(ctx context.Context, prompt, url string) (string, error) {
	return "", ErrURLReadUnsupported
}
