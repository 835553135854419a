package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions API. Ollama serves
// one under /v1, so the same local models are reachable through it.
type OpenAIClient struct {
	model   openai.ChatModel
	baseURL string
	client  *openai.Client
}

// NewOpenAIClient builds a client against baseURL. An empty apiKey leaves the
// SDK default in place, which local servers ignore.
func NewOpenAIClient(apiKey, baseURL string, model openai.ChatModel, timeout time.Duration) (*OpenAIClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		model:   model,
		baseURL: baseURL,
		client:  &cli,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(prompt),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &MalformedResponseError{Status: apiErr.StatusCode, Reason: apiErr.Error()}
		}
		return "", &TransportError{Endpoint: c.baseURL, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &MalformedResponseError{Reason: "no choices returned"}
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
