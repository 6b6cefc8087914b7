package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"
	"PortfolioAgent/api/internal/utils"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

const upsertBatchSize = 100 //存储侧单次请求的上限

type SyncLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 知识同步：静态+抓取内容 -> 分块 -> 整体替换向量索引
func NewSyncLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SyncLogic {
	return &SyncLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SyncLogic) Sync() (*types.SyncResp, error) {
	//同一时刻只允许一次同步
	release, ok := l.svcCtx.SyncLock.TryLock(l.ctx)
	if !ok {
		return &types.SyncResp{Message: "sync already running"}, nil
	}
	defer release()

	runId := uuid.NewString()
	l.Infof("开始知识同步 run=%s", runId)

	//1.加载两路内容。单路失败容忍，两路都空才算来源不可用
	static, err := l.svcCtx.StaticSource.Fetch(l.ctx)
	if err != nil {
		l.Errorf("加载静态知识失败: %v", err)
	}
	dynamic, err := l.svcCtx.DynamicSource.Fetch(l.ctx)
	if err != nil {
		l.Errorf("抓取动态知识失败: %v", err)
	}
	if static == "" && dynamic == "" {
		return nil, types.ErrSourceUnavailable
	}

	//2.内容太少视为无事可做，不算错误
	cfg := l.svcCtx.Config.Knowledge
	full := static + "\n\n" + dynamic
	if len(strings.TrimSpace(full)) < cfg.MinContentLength {
		l.Infof("内容不足%d字符，跳过索引 run=%s", cfg.MinContentLength, runId)
		return &types.SyncResp{Message: "nothing new to index"}, nil
	}

	//3.分块并编ID：毫秒时间戳+序号，单次同步内不会碰撞
	parts := utils.SplitText(full, cfg.ChunkSize, cfg.ChunkOverlap)
	now := time.Now().UnixMilli()
	chunks := make([]types.KnowledgeChunk, 0, len(parts))
	for i, p := range parts {
		source := types.SourcePortfolio
		if i < cfg.StaticChunkGuess {
			source = types.SourceStatic
		}
		chunks = append(chunks, types.KnowledgeChunk{
			ID:     fmt.Sprintf("chunk-%d-%d", now, i),
			Text:   p,
			Source: source,
		})
	}

	//4.整体替换：先清空再分批写入。清空到写完之间查询可能
	//看到空索引，这是接受的一致性模型（vecgo后端无此窗口）
	if err := l.svcCtx.VectorIndex.Reset(l.ctx); err != nil {
		return nil, fmt.Errorf("清空索引失败: %w", err)
	}
	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := l.svcCtx.VectorIndex.Upsert(l.ctx, chunks[i:end]); err != nil {
			return nil, fmt.Errorf("写入第%d批失败: %w", i/upsertBatchSize+1, err)
		}
	}

	l.Infof("同步完成，共%d块 run=%s", len(chunks), runId)
	return &types.SyncResp{Message: "sync completed", Chunks: len(chunks)}, nil
}
