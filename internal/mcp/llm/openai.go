// internal/mcp/llm/openai.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client kontrak minimal yang dipakai planner.
type Client interface {
	// AnswerJSON meminta jawaban berupa JSON object valid agar bisa di-unmarshal.
	AnswerJSON(ctx context.Context, user, system string) (string, error)
}

// Config koneksi OpenAI (atau endpoint kompatibel).
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient adalah implementasi Client berbasis go-openai.
type OpenAIClient struct {
	api   *openai.Client
	model string
}

var ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")

func New(c Config) (*OpenAIClient, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return nil, ErrNoAPIKey
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	model := strings.TrimSpace(c.Model)
	if model == "" {
		model = openai.GPT4oMini // ringan, mendukung JSON mode
	}
	return &OpenAIClient{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

// NewFromEnv: OPENAI_API_KEY wajib; OPENAI_MODEL, OPENAI_BASE_URL opsional.
func NewFromEnv() (*OpenAIClient, error) {
	return New(Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	})
}

// AnswerJSON meminta model merespons JSON object valid (JSON mode).
func (c *OpenAIClient) AnswerJSON(ctx context.Context, user, system string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, 8*time.Second)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion (json): %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return StripFence(resp.Choices[0].Message.Content), nil
}

// StripFence membersihkan ```json ... ``` yang kadang diselipkan model.
func StripFence(out string) string {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```JSON")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
