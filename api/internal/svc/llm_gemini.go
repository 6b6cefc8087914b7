package svc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com"

// Gemini REST适配器。接口版本（v1beta/v1）来自尝试描述符，
// 版本与模型不匹配时服务端返回404，归为可恢复让调用器降级。
type GeminiProvider struct {
	apiKey string
	client *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (g *GeminiProvider) Generate(ctx context.Context, attempt config.Attempt, messages []types.ChatMessage, params types.GenerationParams) ProviderResult {
	version := attempt.Version
	if version == "" {
		version = "v1beta"
	}

	payload, err := json.Marshal(buildGeminiRequest(messages, params))
	if err != nil {
		return ProviderResult{Kind: KindFatal, Body: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		geminiEndpoint, version, attempt.Model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ProviderResult{Kind: KindFatal, Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		//传输失败（含超时）当可恢复，等调用器换下一个尝试
		return ProviderResult{Kind: KindRecoverable, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ProviderResult{Kind: KindRecoverable, Code: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return classifyGeminiError(resp.StatusCode, body)
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		//成功状态但报文不是预期JSON：按空回复处理，原文留给日志
		return ProviderResult{Kind: KindEmpty, Code: resp.StatusCode, Body: string(body)}
	}

	//按顺序拼接全部文本片段
	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, part := range out.Candidates[0].Content.Parts {
			b.WriteString(part.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return ProviderResult{Kind: KindEmpty, Code: resp.StatusCode, Body: string(body)}
	}
	return ProviderResult{Kind: KindSuccess, Text: text}
}

// buildGeminiRequest 把统一消息序列映射成Gemini报文。
// 系统提示折入第一条用户消息，避免依赖各版本不一致的systemInstruction字段。
func buildGeminiRequest(messages []types.ChatMessage, params types.GenerationParams) geminiRequest {
	var system string
	contents := make([]geminiContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = m.Content
		case types.RoleAssistant:
			contents = append(contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: m.Content}},
			})
		default:
			contents = append(contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: m.Content}},
			})
		}
	}
	if system != "" {
		if len(contents) > 0 && contents[0].Role == "user" {
			contents[0].Parts[0].Text = system + "\n\n" + contents[0].Parts[0].Text
		} else {
			contents = append([]geminiContent{{
				Role:  "user",
				Parts: []geminiPart{{Text: system}},
			}}, contents...)
		}
	}

	//生成参数原样透传，越界与否由服务端判定
	gen := map[string]any{}
	if params.Temperature != 0 {
		gen["temperature"] = params.Temperature
	}
	if params.TopP != 0 {
		gen["topP"] = params.TopP
	}
	if params.TopK != 0 {
		gen["topK"] = params.TopK
	}
	if params.MaxOutputTokens != 0 {
		gen["maxOutputTokens"] = params.MaxOutputTokens
	}
	if len(gen) == 0 {
		gen = nil
	}

	return geminiRequest{Contents: contents, GenerationConfig: gen}
}

// classifyGeminiError 归类失败状态。错误报文优先取JSON里的message，
// 解析失败保留原文，不让解析错误盖过真实错误。
func classifyGeminiError(code int, body []byte) ProviderResult {
	msg := string(body)
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}

	switch code {
	case http.StatusNotFound, //模型或版本不匹配
		http.StatusTooManyRequests,    //限流
		http.StatusInternalServerError, //瞬时故障
		http.StatusServiceUnavailable:  //过载
		return ProviderResult{Kind: KindRecoverable, Code: code, Body: msg}
	default:
		return ProviderResult{Kind: KindFatal, Code: code, Body: msg}
	}
}
