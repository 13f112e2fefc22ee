// Package ai talks to the text-generation service. The rest of the engine
// only sees the Generator interface, so tests script responses without a
// network.
package ai

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/ovalles/medianoche/internal/errors"
)

// Generator turns one rendered prompt into one raw completion. The output
// is untrusted; the answer parser repairs whatever comes back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const maxTokens = 512

// Client is the OpenAI-backed Generator.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds a client for the given API key and model. An empty model
// selects a sensible default.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT3Dot5Turbo1106
	}
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate sends the prompt as a single user message and returns the first
// choice verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       c.model,
			MaxTokens:   maxTokens,
			Temperature: 0.8,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
