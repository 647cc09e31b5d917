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

// SystemPrompt steers every backend: reason in English, answer in
// Simplified Chinese.
const SystemPrompt = `You are a professional information analyst.
IMPORTANT: You MUST think and reason in English internally,
but your final output MUST be in Simplified Chinese.

Your task is to analyze articles and provide concise, insightful summaries.`

// GeminiClient talks to the Gemini generateContent API. It supports
// direct URL reading through the url_context tool.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Client = (*GeminiClient)(nil)

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: timeout},
	}
}

// Gemini API request/response types

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	URLContext *struct{} `json:"url_context,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *GeminiClient) CompleteFromURL(ctx context.Context, prompt, url string) (string, error) {
	full := fmt.Sprintf("%s\n\nArticle URL: %s", prompt, url)
	return c.generate(ctx, full, []geminiTool{{URLContext: &struct{}{}}})
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tools []geminiTool) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		Tools: tools,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &Error{Reason: ReasonMalformed, Err: fmt.Errorf("gemini: failed to parse response: %w", err)}
	}

	if apiResp.Error != nil {
		return "", &Error{Reason: ReasonRefused, Err: fmt.Errorf("gemini: %s: %s", apiResp.Error.Status, apiResp.Error.Message)}
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Reason: ReasonMalformed, Err: fmt.Errorf("gemini: empty response")}
	}

	var sb strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
