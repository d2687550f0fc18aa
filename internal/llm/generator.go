// Package llm is the client side of the generative-model service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces model text for a system prompt and user query.
type Generator interface {
	Generate(ctx context.Context, system, query string) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewOpenAIClient(apiKey, baseURL, model string, temperature float32, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// WithTemperature returns a client sharing the same connection but sampling
// at a different temperature.
func (c *OpenAIClient) WithTemperature(t float32) *OpenAIClient {
	clone := *c
	clone.temperature = t
	return &clone
}

func (c *OpenAIClient) Generate(ctx context.Context, system, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
