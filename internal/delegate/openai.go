package delegate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig for the chat-completion backend.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // default: gpt-4o
	Temperature float32 // default: 0.7
	MaxTokens   int     // default: 300; replies are spoken, keep them short
}

// OpenAI implements Delegate on top of the OpenAI chat completion API.
//
// Backend errors are returned as-is; recovery (speaking an apology and
// failing the session) is the callback router's decision, not ours.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 300
	}
	return &OpenAI{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (d *OpenAI) NextTurn(ctx context.Context, instructions string, history []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: instructions,
	})
	for _, t := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		})
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Messages:    messages,
		Temperature: d.temperature,
		MaxTokens:   d.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("delegate: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("delegate: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
