package svc

import (
	"context"
	"strings"
	"time"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// 提供方响应的规整结果：调用器只认这个结构，不碰各家原始报文
type ResultKind int

const (
	KindSuccess     ResultKind = iota //拿到文本
	KindEmpty                         //成功状态但无文本可提取（多为安全过滤），终态
	KindRecoverable                   //可降级：模型/版本404、限流429、瞬时过载、超时
	KindFatal                         //不可降级：鉴权失败、请求非法等
)

type ProviderResult struct {
	Kind ResultKind
	Text string
	Code int    //HTTP状态码（传输层失败为0）
	Body string //原始错误报文，解析不了就保留原文
}

// 模型提供方适配器：每家一个实现，把各自的响应形状规整成ProviderResult
type ModelProvider interface {
	Generate(ctx context.Context, attempt config.Attempt, messages []types.ChatMessage, params types.GenerationParams) ProviderResult
}

// 按降级列表顺序逐个尝试的调用器。
// 控制流是对列表的一次遍历：成功/空回复/致命错误即停，
// 可恢复错误换下一个描述符继续，列表耗尽按可恢复错误上抛。
type FallbackInvoker struct {
	providers map[string]ModelProvider
	attempts  []config.Attempt
	timeout   time.Duration //单次尝试的超时，超时按可恢复处理
}

func NewFallbackInvoker(providers map[string]ModelProvider, attempts []config.Attempt, timeout time.Duration) *FallbackInvoker {
	return &FallbackInvoker{
		providers: providers,
		attempts:  attempts,
		timeout:   timeout,
	}
}

func (inv *FallbackInvoker) Invoke(ctx context.Context, messages []types.ChatMessage, params types.GenerationParams) (string, error) {
	logger := logx.WithContext(ctx)

	var last ProviderResult
	for i, attempt := range inv.attempts {
		//请求里指定的模型只覆盖第一个尝试，后面的保持配置的降级序列
		if i == 0 && params.Model != "" {
			attempt.Model = params.Model
		}

		provider, exists := inv.providers[attempt.Provider]
		if !exists {
			logger.Errorf("未知的模型提供方: %s", attempt.Provider)
			continue
		}

		actx, cancel := context.WithTimeout(ctx, inv.timeout)
		res := provider.Generate(actx, attempt, messages, params)
		cancel()

		switch res.Kind {
		case KindSuccess:
			return strings.TrimSpace(res.Text), nil
		case KindEmpty:
			//成功状态但没有文本：不能当成功透传空串，也不值得换模型重试
			logger.Errorf("模型返回空内容（%s/%s）", attempt.Provider, attempt.Model)
			return "", types.ErrEmptyReply
		case KindFatal:
			logger.Errorf("模型调用致命失败（%s/%s, %d）: %s",
				attempt.Provider, attempt.Model, res.Code, res.Body)
			return "", &types.ProviderError{Code: res.Code, Body: res.Body}
		case KindRecoverable:
			logger.Infof("模型调用失败，尝试下一个（%s/%s, %d）: %s",
				attempt.Provider, attempt.Model, res.Code, res.Body)
			last = res
		}
	}

	//列表耗尽
	return "", &types.ProviderError{Code: last.Code, Body: last.Body, Recoverable: true}
}
