package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAdvisorModel is used when no model is configured.
const DefaultAdvisorModel = string(anthropic.ModelClaudeHaiku4_5)

// DefaultAdvisorMaxTokens bounds a one-line reply.
const DefaultAdvisorMaxTokens = 64

// Completer sends a prompt to a language model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// AnthropicCompleter is a Completer backed by the Anthropic Messages API.
type AnthropicCompleter struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicCompleter builds a completer. An empty apiKey falls back to the
// ANTHROPIC_API_KEY environment variable; an empty model or non-positive
// maxTokens use the defaults. Extra options are passed to the client.
func NewAnthropicCompleter(apiKey, model string, maxTokens int, opts ...option.RequestOption) *AnthropicCompleter {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	if model == "" {
		model = DefaultAdvisorModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultAdvisorMaxTokens
	}
	return &AnthropicCompleter{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
	}
}

// Complete sends one user message and joins the text blocks of the reply.
//
// Postcondition: Returns a non-empty reply or an error.
func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("advisor completion: %w", err)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("advisor completion: reply has no text")
	}
	return sb.String(), nil
}
