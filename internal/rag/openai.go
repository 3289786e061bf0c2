package rag

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultChatModel is the completion model used for answer generation.
const DefaultChatModel = openai.ChatModelGPT4o

// OpenAIChat implements LLM on the OpenAI chat completions API.
type OpenAIChat struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIChat(client *openai.Client, model openai.ChatModel) *OpenAIChat {
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIChat{client: client, model: model}
}

func (c *OpenAIChat) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
