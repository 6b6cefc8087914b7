package logic

import (
	"context"
	"errors"
	"net/http"

	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type AskLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 问答编排：检索 -> 组装提示 -> 降级调用 -> 规整回复
func NewAskLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AskLogic {
	return &AskLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AskLogic) Ask(req *types.AskReq) (*types.AskResp, error) {
	if len(req.Messages) == 0 {
		return nil, types.ErrNoQuestion
	}

	//1.最后一条消息是当前问题，其余是历史
	question := req.Messages[len(req.Messages)-1].Content
	history := dropIntroTurn(req.Messages[:len(req.Messages)-1])

	//2.知识检索。检索失败不终止问答，按无上下文继续
	cfg := l.svcCtx.Config
	contexts := make([]string, 0, cfg.Retrieval.TopK+1)
	if req.Knowledge != "" {
		contexts = append(contexts, req.Knowledge)
	}
	results, err := l.svcCtx.VectorIndex.Query(l.ctx, question, cfg.Retrieval.TopK, cfg.Retrieval.MinScore)
	if err != nil {
		l.Errorf("知识检索失败: %v", err)
	}
	for _, r := range results {
		contexts = append(contexts, r.Text)
	}

	//3.组装提示
	persona := req.SystemPrompt
	if persona == "" {
		persona = cfg.Assistant.Persona
	}
	messages := BuildMessages(persona, cfg.Assistant.RefusalPhrase, contexts,
		history, question, cfg.Assistant.MaxContextChars)

	//4.调用模型（带降级），失败映射为固定话术
	reply, err := l.svcCtx.Invoker.Invoke(l.ctx, messages, l.buildParams(req))
	if err != nil {
		return nil, l.mapInvokeError(err)
	}

	return &types.AskResp{Reply: reply}, nil
}

// 请求覆盖配置默认，生成参数不做本地校验
func (l *AskLogic) buildParams(req *types.AskReq) types.GenerationParams {
	cfg := l.svcCtx.Config.LLM
	params := types.GenerationParams{
		Model:           req.Model,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		params.TopP = *req.TopP
	}
	if req.TopK != nil {
		params.TopK = *req.TopK
	}
	if req.MaxOutputTokens != nil {
		params.MaxOutputTokens = *req.MaxOutputTokens
	}
	return params
}

// 失败归类为三类固定话术，原始诊断只留在日志
func (l *AskLogic) mapInvokeError(err error) error {
	if errors.Is(err, types.ErrEmptyReply) {
		return &types.AnswerError{Message: types.AnswerSafetyBlocked, Cause: err}
	}
	var provErr *types.ProviderError
	if errors.As(err, &provErr) && provErr.Code == http.StatusTooManyRequests {
		return &types.AnswerError{Message: types.AnswerRateLimited, Cause: err}
	}
	return &types.AnswerError{Message: types.AnswerInternalError, Cause: err}
}
