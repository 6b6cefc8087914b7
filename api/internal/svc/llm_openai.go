package svc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"

	"github.com/sashabaranov/go-openai"
)

// OpenAI兼容适配器：官方API或本地部署的兼容服务都走这里
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(client *openai.Client) *OpenAIProvider {
	return &OpenAIProvider{client: client}
}

func (p *OpenAIProvider) Generate(ctx context.Context, attempt config.Attempt, messages []types.ChatMessage, params types.GenerationParams) ProviderResult {
	request := openai.ChatCompletionRequest{
		Model:       attempt.Model,
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   params.MaxOutputTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return classifyOpenAIError(err)
	}

	var b strings.Builder
	for _, choice := range resp.Choices {
		b.WriteString(choice.Message.Content)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return ProviderResult{Kind: KindEmpty, Code: http.StatusOK}
	}
	return ProviderResult{Kind: KindSuccess, Text: text}
}

func toOpenAIMessages(messages []types.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

func classifyOpenAIError(err error) ProviderResult {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusNotFound,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusServiceUnavailable:
			return ProviderResult{Kind: KindRecoverable, Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
		default:
			return ProviderResult{Kind: KindFatal, Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
	}
	//传输层失败（含超时）当可恢复
	return ProviderResult{Kind: KindRecoverable, Body: err.Error()}
}
