package svc

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 脚本化的假提供方：按预设结果逐次返回，并记录调用
type scriptedProvider struct {
	results []ProviderResult
	calls   int
	models  []string
}

func (p *scriptedProvider) Generate(ctx context.Context, attempt config.Attempt, messages []types.ChatMessage, params types.GenerationParams) ProviderResult {
	p.models = append(p.models, attempt.Version+"/"+attempt.Model)
	res := p.results[p.calls]
	p.calls++
	return res
}

func attempts(n int) []config.Attempt {
	out := make([]config.Attempt, 0, n)
	versions := []string{"v1beta", "v1", "v1beta", "v1"}
	models := []string{"gemini-1.5-flash", "gemini-1.5-flash", "gemini-pro", "gemini-pro"}
	for i := 0; i < n; i++ {
		out = append(out, config.Attempt{Provider: "fake", Version: versions[i], Model: models[i]})
	}
	return out
}

func newTestInvoker(p ModelProvider, n int) *FallbackInvoker {
	return NewFallbackInvoker(map[string]ModelProvider{"fake": p}, attempts(n), 5*time.Second)
}

func TestInvokeFallbackUntilSuccess(t *testing.T) {
	//前N-1次可恢复失败，第N次成功：应拿到成功回复，共调用N次
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindRecoverable, Code: http.StatusNotFound, Body: "model not found"},
		{Kind: KindRecoverable, Code: http.StatusTooManyRequests, Body: "rate limited"},
		{Kind: KindSuccess, Text: "  the answer  "},
	}}
	inv := newTestInvoker(p, 3)

	reply, err := inv.Invoke(context.Background(), nil, types.GenerationParams{})
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)
	assert.Equal(t, 3, p.calls)
}

func TestInvokeFatalStopsImmediately(t *testing.T) {
	//第一跳致命失败：不再尝试后续描述符
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindFatal, Code: http.StatusBadRequest, Body: "invalid request"},
		{Kind: KindSuccess, Text: "never reached"},
	}}
	inv := newTestInvoker(p, 2)

	_, err := inv.Invoke(context.Background(), nil, types.GenerationParams{})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.Code)
	assert.Equal(t, "invalid request", provErr.Body)
	assert.False(t, provErr.Recoverable)
}

func TestInvokeSingleAttemptFatal(t *testing.T) {
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindFatal, Code: http.StatusForbidden, Body: "bad key"},
	}}
	inv := newTestInvoker(p, 1)

	_, err := inv.Invoke(context.Background(), nil, types.GenerationParams{})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestInvokeEmptyReplyIsTerminal(t *testing.T) {
	//成功状态但无文本：终态错误，不降级也不当成功透传
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindEmpty, Code: http.StatusOK},
		{Kind: KindSuccess, Text: "never reached"},
	}}
	inv := newTestInvoker(p, 2)

	reply, err := inv.Invoke(context.Background(), nil, types.GenerationParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrEmptyReply))
	assert.Empty(t, reply)
	assert.Equal(t, 1, p.calls)
}

func TestInvokeExhaustionIsRecoverableError(t *testing.T) {
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindRecoverable, Code: http.StatusServiceUnavailable, Body: "overloaded"},
		{Kind: KindRecoverable, Code: http.StatusTooManyRequests, Body: "rate limited"},
	}}
	inv := newTestInvoker(p, 2)

	_, err := inv.Invoke(context.Background(), nil, types.GenerationParams{})
	require.Error(t, err)
	assert.Equal(t, 2, p.calls)

	//列表耗尽后携带最后一跳的状态码
	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.Code)
	assert.True(t, provErr.Recoverable)
}

func TestInvokeModelOverrideOnlyFirstAttempt(t *testing.T) {
	p := &scriptedProvider{results: []ProviderResult{
		{Kind: KindRecoverable, Code: http.StatusNotFound, Body: "no such model"},
		{Kind: KindSuccess, Text: "ok"},
	}}
	inv := newTestInvoker(p, 2)

	_, err := inv.Invoke(context.Background(), nil, types.GenerationParams{Model: "custom-model"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v1beta/custom-model", "v1/gemini-1.5-flash"}, p.models)
}
