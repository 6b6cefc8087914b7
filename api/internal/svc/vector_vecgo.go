package svc

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"PortfolioAgent/api/internal/types"

	"github.com/hupe1980/vecgo"
)

// 内嵌向量后端：vecgo平铺余弦索引 + 本地嵌入。
// 同步时在旁路重建新索引，写完一批就切换指针，
// 查询侧永远不会看到空索引（双缓冲换指针）。
type VecgoIndex struct {
	embedder types.Embedder
	dim      int
	live     atomic.Pointer[vecgo.Vecgo[types.KnowledgeChunk]]
	staging  *vecgo.Vecgo[types.KnowledgeChunk] //仅同步期间使用，同步互斥由上层保证
}

func NewVecgoIndex(embedder types.Embedder, dim int) *VecgoIndex {
	return &VecgoIndex{
		embedder: embedder,
		dim:      dim,
	}
}

// Reset 开始构建替换索引，旧索引继续服务查询
func (v *VecgoIndex) Reset(ctx context.Context) error {
	idx, err := vecgo.Flat[types.KnowledgeChunk](v.dim).
		Cosine().
		Build()
	if err != nil {
		return fmt.Errorf("创建替换索引失败: %w", err)
	}
	v.staging = idx
	return nil
}

// Upsert 写入替换索引并切换指针
func (v *VecgoIndex) Upsert(ctx context.Context, chunks []types.KnowledgeChunk) error {
	idx := v.staging
	if idx == nil {
		//没有进行中的同步时直接写当前索引
		if idx = v.live.Load(); idx == nil {
			if err := v.Reset(ctx); err != nil {
				return err
			}
			idx = v.staging
		}
	}

	for _, ch := range chunks {
		vec, err := v.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("生成嵌入失败: %w", err)
		}
		if _, err := idx.Insert(ctx, vecgo.VectorWithData[types.KnowledgeChunk]{
			Vector: vec,
			Data:   ch,
		}); err != nil {
			return fmt.Errorf("写入索引失败: %w", err)
		}
	}

	//每批写完就把新索引暴露给查询侧
	v.live.Store(idx)
	return nil
}

// Query 语义检索
func (v *VecgoIndex) Query(ctx context.Context, text string, topK int, minScore float64) ([]types.RetrievalResult, error) {
	idx := v.live.Load()
	if idx == nil {
		//尚未同步过，按无上下文处理
		return nil, nil
	}

	vec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("生成查询嵌入失败: %w", err)
	}

	hits, err := idx.KNNSearch(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("索引检索失败: %w", err)
	}

	results := make([]types.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		//余弦距离基于归一化向量的L2：相似度 = 1 - dist/2
		score := 1 - float64(h.Distance)/2
		if score < minScore {
			continue
		}
		results = append(results, types.RetrievalResult{Text: h.Data.Text, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}
