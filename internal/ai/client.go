// Package ai wraps the Anthropic Messages API behind the two assist
// operations the board offers: rewriting a task description and proposing
// subtasks. Both are best-effort: every failure is absorbed into a neutral
// fallback and logged, never surfaced to the user.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/drapaimern/lumina/internal/observability"
)

const enhancePromptTemplate = `Enhance the following task description to be more professional and actionable.
Task Title: %s
Current Description: %s

Return only the enhanced text, keep it concise (1-2 sentences).`

const subtasksPromptTemplate = `Suggest 3 simple subtasks for the task: %q.

Respond with only a JSON array of strings, nothing else.`

// Assistant is the surface the board and CLI depend on. Implementations
// never return errors; failures degrade to the caller's original input.
type Assistant interface {
	// EnhanceDescription rewrites the description in 1-2 sentences. On any
	// failure the original description is returned unchanged.
	EnhanceDescription(ctx context.Context, title, description string) string
	// SuggestSubtasks proposes an ordered list of subtask titles. On any
	// failure the list is empty.
	SuggestSubtasks(ctx context.Context, title string) []string
}

// Client implements Assistant against the Anthropic Messages API. One
// request per call; no retries, no caching, no timeout of its own.
type Client struct {
	model anthropic.Model
	log   observability.EventLog

	// create issues one Messages API call. Swapped out in tests.
	create func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// NewClient creates a Client for the given model. An empty API key is
// allowed; the resulting calls fail and are absorbed per the failure
// policy. log may be nil.
func NewClient(apiKey, model string, log observability.EventLog) *Client {
	sdk := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		model: anthropic.Model(model),
		log:   log,
		create: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
			return sdk.Messages.New(ctx, params)
		},
	}
}

func (c *Client) EnhanceDescription(ctx context.Context, title, description string) string {
	current := description
	if strings.TrimSpace(current) == "" {
		current = "None"
	}
	prompt := fmt.Sprintf(enhancePromptTemplate, title, current)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		observability.RecordWarn(c.log, observability.EventAIRequestFailed,
			"enhance request failed", map[string]any{"title": title, "error": err.Error()})
		return description
	}
	text = strings.TrimSpace(text)
	if text == "" {
		observability.RecordWarn(c.log, observability.EventAIRequestFailed,
			"enhance returned empty text", map[string]any{"title": title})
		return description
	}
	return text
}

func (c *Client) SuggestSubtasks(ctx context.Context, title string) []string {
	prompt := fmt.Sprintf(subtasksPromptTemplate, title)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		observability.RecordWarn(c.log, observability.EventAIRequestFailed,
			"subtask request failed", map[string]any{"title": title, "error": err.Error()})
		return nil
	}
	items, err := parseSubtasks(text)
	if err != nil {
		observability.RecordWarn(c.log, observability.EventAIRequestFailed,
			"subtask response was not a JSON string array", map[string]any{"title": title, "error": err.Error()})
		return nil
	}
	return items
}

// complete sends one user message and extracts the first text block.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.create(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("response has no content blocks")
	}
	block := message.Content[0]
	if block.Type != "text" {
		return "", fmt.Errorf("response is not a text block (type=%s)", block.Type)
	}
	return block.Text, nil
}

// parseSubtasks decodes a JSON array of strings, tolerating a surrounding
// markdown code fence.
func parseSubtasks(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	return items, nil
}
