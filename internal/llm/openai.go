package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"educast/pkg/httputil"
)

const (
	openAIBaseURL        = "https://api.openai.com/v1/chat/completions"
	openAIDefaultTimeout = 60 * time.Second
	roleSystem           = "system"
	roleUser             = "user"
)

type OpenAIClient struct {
	apiKey     string
	httpClient *httputil.RetryClient
	baseURL    string
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens"`
	TopP           float64              `json:"top_p"`
	ResponseFormat *openAIFormatOptions `json:"response_format,omitempty"`
}

type openAIFormatOptions struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		httpClient: httputil.NewRetryClient(
			&http.Client{Timeout: openAIDefaultTimeout},
			httputil.DefaultRetryConfig(),
		),
		baseURL: openAIBaseURL,
	}
}

// SetBaseURL overrides the endpoint, for tests.
func (c *OpenAIClient) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *OpenAIClient) GenerateStructured(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: userPrompt},
		},
		Temperature:    0.7,
		MaxTokens:      4000,
		TopP:           0.9,
		ResponseFormat: &openAIFormatOptions{Type: "json_object"},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error: %s", resp.Status)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from openai api")
	}

	return parsed.Choices[0].Message.Content, nil
}
