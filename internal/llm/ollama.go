package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGenerateTimeout = 120 * time.Second

// OllamaClient calls the native /api/generate endpoint with streaming off.
type OllamaClient struct {
	endpoint string
	model    string
	http     *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

// NewOllamaClient builds a client for endpoint, e.g. http://localhost:11434/api/generate.
func NewOllamaClient(endpoint, model string, timeout time.Duration) (*OllamaClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint required")
	}
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &OllamaClient{
		endpoint: endpoint,
		model:    model,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.http == nil {
		return "", fmt.Errorf("nil ollama client")
	}
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Endpoint: c.endpoint, Err: err}
	}
	return decodeGenerate(resp.StatusCode, data)
}

// decodeGenerate accepts any status code; only the body decides success.
func decodeGenerate(status int, data []byte) (string, error) {
	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &MalformedResponseError{Status: status, Reason: err.Error()}
	}
	if out.Response == nil {
		reason := "response field missing"
		if out.Error != "" {
			reason = "endpoint error: " + out.Error
		}
		return "", &MalformedResponseError{Status: status, Reason: reason}
	}
	return *out.Response, nil
}
