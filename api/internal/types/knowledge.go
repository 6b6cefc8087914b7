package types

import "context"

// 知识来源标记
const (
	SourceStatic    = "static"    //本地知识文件
	SourcePortfolio = "portfolio" //站点抓取内容
)

// 知识块结构：一次同步内ID唯一，写入后不再修改，下次同步整体替换
type KnowledgeChunk struct {
	ID     string `json:"id"`     //chunk-<毫秒时间戳>-<序号>
	Text   string `json:"text"`   //知识内容
	Source string `json:"source"` //来源标记 static/portfolio
}

// 检索结果（按相关度降序，仅查询期存在，不落库）
type RetrievalResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"` //相关度 0~1
}

// 向量索引接口
//
// 一致性约定：Reset+Upsert期间的并发查询可能看到部分填充甚至空索引，
// 调用方须容忍"未检索到上下文"的瞬时结果（vecgo后端通过指针切换消除该窗口）。
type VectorIndex interface {
	Reset(ctx context.Context) error                           //清空全部记录
	Upsert(ctx context.Context, chunks []KnowledgeChunk) error //批量写入
	Query(ctx context.Context, text string, topK int, minScore float64) ([]RetrievalResult, error)
}

// 文本向量化接口（upstash由存储侧计算，其余后端需要本地嵌入）
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// 内容来源接口：静态文件与站点抓取都实现它。
// 抓取失败返回空串属于正常降级，不算错误。
type ContentSource interface {
	Fetch(ctx context.Context) (string, error)
}

// 模型调用接口：按降级列表逐个尝试，返回规整后的回复文本
type ModelInvoker interface {
	Invoke(ctx context.Context, messages []ChatMessage, params GenerationParams) (string, error)
}

// 反馈落地接口：按固定五列 [时间戳, 反馈, 问题, 回答, 消息ID] 追加一行
type FeedbackSink interface {
	AppendRow(ctx context.Context, row []string) error
}
