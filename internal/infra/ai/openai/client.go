package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/readtheroom/readtheroom/internal/domain/analysis"
	"github.com/readtheroom/readtheroom/internal/infra/ai/prompt"
)

const maxTokens = 4096

type Client struct {
	*openai.Client
	Model  string
	Logger *slog.Logger
}

func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, Logger: logger}
}

// Analyze runs one vibe analysis. It never returns an error: any failure
// (credentials, network, unparseable response) becomes a complete fallback
// result whose roast starts with "Internal Error:".
func (c *Client) Analyze(ctx context.Context, chatText string) analysis.Result {
	stats := chatStats(chatText)
	text := prompt.PrepareChatText(chatText)

	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		c.Logger.Error("chat completion failed", slog.String("error", err.Error()))
		return prompt.Fallback(stats, err)
	}
	if len(resp.Choices) == 0 {
		return prompt.Fallback(stats, fmt.Errorf("model returned no choices"))
	}

	raw, err := prompt.ExtractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		c.Logger.Error("model response not parseable", slog.String("error", err.Error()))
		return prompt.Fallback(stats, err)
	}

	var payload prompt.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.Logger.Error("model response not parseable", slog.String("error", err.Error()))
		return prompt.Fallback(stats, fmt.Errorf("decode model JSON: %w", err))
	}

	return prompt.Normalize(&payload, stats)
}
