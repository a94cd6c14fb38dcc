// Package openai adapts the hosted chat-completion API as the external
// text-generation capability behind the plain-language rewriter and the
// translation agent.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const rewriteSystemPrompt = "You rewrite legal contract clauses into short plain English. " +
	"Explain what the clause means for the signing party in one or two sentences. " +
	"Do not repeat the clause text and do not give legal advice."

type Client struct {
	client      openai.Client
	model       string
	callTimeout time.Duration
}

func New(apiKey, model string, callTimeout time.Duration, opts ...option.RequestOption) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		client:      openai.NewClient(options...),
		model:       model,
		callTimeout: callTimeout,
	}
}

// Rewrite asks the model for a plain-English rendering of one clause.
// Errors are returned as-is; the usecase layer owns the fallback policy.
func (c *Client) Rewrite(ctx context.Context, clause string) (string, error) {
	return c.complete(ctx,
		openai.SystemMessage(rewriteSystemPrompt),
		openai.UserMessage(clause),
	)
}

// Translate renders text into the requested language code.
func (c *Client) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf("Translate the text into specified language %s.\n\n%s", language, text)
	return c.complete(ctx, openai.UserMessage(prompt))
}

func (c *Client) complete(ctx context.Context, messages ...openai.ChatCompletionMessageParamUnion) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
