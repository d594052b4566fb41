package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"tasklens/internal/models"
)

// Client is the opaque completion capability: given instruction text and
// user text, return the raw model text. Everything above this interface is
// provider-agnostic.
type Client interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// OpenAIClient backs Client with an OpenAI chat model via langchaingo.
type OpenAIClient struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

type Options struct {
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	llmOpts := []openai.Option{openai.WithModel(opts.Model)}
	if opts.APIKey != "" {
		llmOpts = append(llmOpts, openai.WithToken(opts.APIKey))
	}
	model, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &OpenAIClient{
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

// Complete sends one system+user exchange and returns the trimmed first
// choice. Transport or provider failures surface as ErrModelUnavailable.
func (c *OpenAIClient) Complete(ctx context.Context, instructions, input string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, input),
	}
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", models.ErrModelUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
