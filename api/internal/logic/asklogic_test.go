package logic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"PortfolioAgent/api/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func askReq(contents ...string) *types.AskReq {
	req := &types.AskReq{}
	for i, c := range contents {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		req.Messages = append(req.Messages, types.ChatMessage{Role: role, Content: c})
	}
	return req
}

func TestAskEmptyMessages(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	l := NewAskLogic(context.Background(), svcCtx)

	_, err := l.Ask(&types.AskReq{})
	assert.ErrorIs(t, err, types.ErrNoQuestion)
}

func TestAskRetrievedContextReachesModel(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	index := &fakeIndex{results: []types.RetrievalResult{
		{Text: "张三在2023年主导了支付网关重构", Score: 0.91},
		{Text: "张三熟悉Go和Postgres", Score: 0.85},
	}}
	invoker := &fakeInvoker{reply: "他在2023年主导了支付网关重构。"}
	svcCtx.VectorIndex = index
	svcCtx.Invoker = invoker

	l := NewAskLogic(context.Background(), svcCtx)
	resp, err := l.Ask(askReq("张三最近做过什么项目？"))
	require.NoError(t, err)
	assert.Equal(t, invoker.reply, resp.Reply)

	//检索用的是最后一条消息
	require.Equal(t, []string{"张三最近做过什么项目？"}, index.queries)

	require.NotEmpty(t, invoker.gotMessages)
	system := invoker.gotMessages[0]
	assert.Equal(t, types.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "支付网关重构")
	assert.Contains(t, system.Content, "Go和Postgres")
	//最后一条是当前问题
	last := invoker.gotMessages[len(invoker.gotMessages)-1]
	assert.Equal(t, types.RoleUser, last.Role)
	assert.Equal(t, "张三最近做过什么项目？", last.Content)
}

func TestAskNoRetrievalStillAnswers(t *testing.T) {
	//检索为空时走无上下文提示，不报错
	svcCtx := testServiceContext(testConfig())
	invoker := &fakeInvoker{reply: testRefusal}
	svcCtx.Invoker = invoker

	l := NewAskLogic(context.Background(), svcCtx)
	resp, err := l.Ask(askReq("今天天气怎么样？"))
	require.NoError(t, err)
	assert.Equal(t, testRefusal, resp.Reply)
	assert.Contains(t, invoker.gotMessages[0].Content, noContextNote)
}

func TestAskQueryFailureTolerated(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	svcCtx.VectorIndex = &fakeIndex{queryErr: errors.New("connection refused")}
	invoker := &fakeInvoker{reply: "回答"}
	svcCtx.Invoker = invoker

	l := NewAskLogic(context.Background(), svcCtx)
	resp, err := l.Ask(askReq("问题"))
	require.NoError(t, err)
	assert.Equal(t, "回答", resp.Reply)
	assert.Equal(t, 1, invoker.calls)
}

func TestAskClientKnowledgeComesFirst(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	index := &fakeIndex{results: []types.RetrievalResult{{Text: "检索片段", Score: 0.9}}}
	invoker := &fakeInvoker{reply: "ok"}
	svcCtx.VectorIndex = index
	svcCtx.Invoker = invoker

	l := NewAskLogic(context.Background(), svcCtx)
	req := askReq("问题")
	req.Knowledge = "客户端附带的背景"
	_, err := l.Ask(req)
	require.NoError(t, err)

	system := invoker.gotMessages[0].Content
	assert.Contains(t, system, "客户端附带的背景")
	assert.Contains(t, system, "检索片段")
	assert.Less(t, strings.Index(system, "客户端附带的背景"), strings.Index(system, "检索片段"))
}

func TestAskIntroTurnDropped(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	invoker := &fakeInvoker{reply: "ok"}
	svcCtx.Invoker = invoker

	l := NewAskLogic(context.Background(), svcCtx)
	req := &types.AskReq{Messages: []types.ChatMessage{
		{Role: types.RoleAssistant, Content: "你好，我是作品集助手"},
		{Role: types.RoleUser, Content: "第一问"},
		{Role: types.RoleAssistant, Content: "第一答"},
		{Role: types.RoleUser, Content: "第二问"},
	}}
	_, err := l.Ask(req)
	require.NoError(t, err)

	//开场白不进历史：system, 第一问, 第一答, 第二问
	require.Len(t, invoker.gotMessages, 4)
	assert.Equal(t, "第一问", invoker.gotMessages[1].Content)
	assert.Equal(t, "第一答", invoker.gotMessages[2].Content)
	assert.Equal(t, "第二问", invoker.gotMessages[3].Content)
}

func TestAskRequestParamsOverrideConfig(t *testing.T) {
	svcCtx := testServiceContext(testConfig())
	invoker := &fakeInvoker{reply: "ok"}
	svcCtx.Invoker = invoker

	temp := float32(0.1)
	tokens := 256
	req := askReq("问题")
	req.Model = "gemini-exp"
	req.Temperature = &temp
	req.MaxOutputTokens = &tokens

	l := NewAskLogic(context.Background(), svcCtx)
	_, err := l.Ask(req)
	require.NoError(t, err)

	assert.Equal(t, "gemini-exp", invoker.gotParams.Model)
	assert.Equal(t, float32(0.1), invoker.gotParams.Temperature)
	assert.Equal(t, 256, invoker.gotParams.MaxOutputTokens)
	//未覆盖的沿用配置
	assert.Equal(t, float32(0.95), invoker.gotParams.TopP)
}

func TestAskErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"限流", &types.ProviderError{Code: http.StatusTooManyRequests, Recoverable: true}, types.AnswerRateLimited},
		{"空回复", types.ErrEmptyReply, types.AnswerSafetyBlocked},
		{"服务端错误", &types.ProviderError{Code: http.StatusInternalServerError, Recoverable: true}, types.AnswerInternalError},
		{"其他错误", errors.New("boom"), types.AnswerInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcCtx := testServiceContext(testConfig())
			svcCtx.Invoker = &fakeInvoker{err: tt.err}

			l := NewAskLogic(context.Background(), svcCtx)
			_, err := l.Ask(askReq("问题"))
			var answerErr *types.AnswerError
			require.ErrorAs(t, err, &answerErr)
			assert.Equal(t, tt.message, answerErr.Message)
		})
	}
}
