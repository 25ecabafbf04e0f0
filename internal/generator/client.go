package generator

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"

	// Generous: a single draft can take well over a minute on a loaded
	// upstream.
	completionTimeout = 120 * time.Second
)

// Message is one turn of the conversation sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionClient issues a single text completion using the supplied
// credential. A maxTokens of 0 leaves the output length to the provider.
// Implementations keep no local state between calls, which is what lets the
// invoker swap credentials freely between attempts.
type CompletionClient interface {
	Complete(ctx context.Context, credential string, messages []Message, temperature float64, maxTokens int) (string, error)
}

// GroqClient talks to the Groq OpenAI-compatible chat completions endpoint.
// A fresh SDK client is configured per call so each attempt carries the
// credential the rotator assigned to it.
type GroqClient struct {
	baseURL string
	model   string
	timeout time.Duration
}

func NewGroqClient() *GroqClient {
	model := os.Getenv("GROQ_MODEL_NAME")
	if model == "" {
		model = defaultGroqModel
	}
	return &GroqClient{
		baseURL: defaultGroqBaseURL,
		model:   model,
		timeout: completionTimeout,
	}
}

func (c *GroqClient) ModelName() string {
	return c.model
}

func (c *GroqClient) Complete(ctx context.Context, credential string, messages []Message, temperature float64, maxTokens int) (string, error) {
	cfg := openai.DefaultConfig(credential)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
		Stream:      false,
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &ServiceError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &ServiceError{Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
		}
		return "", &TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Status: http.StatusOK, Message: "response contained no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}
