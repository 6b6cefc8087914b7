package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

var ErrBadFeedback = errors.New("feedback必须是Yes或No")

type FeedbackLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 反馈落地：校验后按固定五列追加一行
func NewFeedbackLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FeedbackLogic {
	return &FeedbackLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FeedbackLogic) Feedback(req *types.FeedbackReq) (*types.FeedbackResp, error) {
	if req.Feedback != "Yes" && req.Feedback != "No" {
		return nil, ErrBadFeedback
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	messageId := req.MessageId
	if messageId == "" {
		messageId = uuid.NewString()
	}

	//列顺序固定：[时间戳, 反馈, 问题, 回答, 消息ID]
	row := []string{
		timestamp,
		req.Feedback,
		req.OriginalQuestion,
		req.AssistantResponse,
		messageId,
	}
	if err := l.svcCtx.FeedbackSink.AppendRow(l.ctx, row); err != nil {
		return nil, fmt.Errorf("反馈保存失败: %w", err)
	}

	return &types.FeedbackResp{Success: true}, nil
}
