package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

// Ensure AnthropicProvider implements LLMProvider.
var _ LLMProvider = (*AnthropicProvider)(nil)

// AnthropicProvider calls the Anthropic /v1/messages endpoint.
type AnthropicProvider struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewAnthropicProvider creates a provider for the Messages API at baseURL.
func NewAnthropicProvider(baseURL, apiKey, model string, httpClient *http.Client) *AnthropicProvider {
	return &AnthropicProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  1024,
		httpClient: httpClient,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete sends the system instruction and one user message and joins the
// text blocks of the reply.
func (p *AnthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError("anthropic", resp, respBytes)
	}

	var msgResp anthropicResponse
	if err := json.Unmarshal(respBytes, &msgResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", msgResp.Error.Type, msgResp.Error.Message)
	}

	var sb strings.Builder
	for _, c := range msgResp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("llm returned no text content")
	}
	return sb.String(), nil
}
