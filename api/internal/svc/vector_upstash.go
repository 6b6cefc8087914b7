package svc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"PortfolioAgent/api/internal/types"
)

// Upstash Vector REST后端：嵌入由存储侧计算，这边只传原文
type UpstashIndex struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewUpstashIndex(baseURL, token string) *UpstashIndex {
	return &UpstashIndex{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type upstashVector struct {
	Id       string            `json:"id"`
	Data     string            `json:"data"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type upstashQueryResp struct {
	Result []struct {
		Id       string            `json:"id"`
		Score    float64           `json:"score"`
		Data     string            `json:"data"`
		Metadata map[string]string `json:"metadata"`
	} `json:"result"`
}

// Reset 清空索引。清空到写完新数据之间并发查询会看到空索引，
// 检索方按"未命中上下文"处理该窗口。
func (u *UpstashIndex) Reset(ctx context.Context) error {
	_, err := u.do(ctx, "/reset", nil)
	return err
}

// Upsert 批量写入知识块
func (u *UpstashIndex) Upsert(ctx context.Context, chunks []types.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	vectors := make([]upstashVector, 0, len(chunks))
	for _, ch := range chunks {
		vectors = append(vectors, upstashVector{
			Id:       ch.ID,
			Data:     ch.Text,
			Metadata: map[string]string{"source": ch.Source},
		})
	}
	_, err := u.do(ctx, "/upsert-data", vectors)
	return err
}

// Query 语义检索，过滤低于阈值的结果
func (u *UpstashIndex) Query(ctx context.Context, text string, topK int, minScore float64) ([]types.RetrievalResult, error) {
	body, err := u.do(ctx, "/query-data", map[string]any{
		"data":            text,
		"topK":            topK,
		"includeMetadata": true,
		"includeData":     true,
	})
	if err != nil {
		return nil, err
	}

	var resp upstashQueryResp
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("解析检索响应失败: %w", err)
	}

	results := make([]types.RetrievalResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		if r.Score < minScore {
			continue
		}
		results = append(results, types.RetrievalResult{Text: r.Data, Score: r.Score})
	}
	//存储侧已按相关度降序返回，这里再兜底排一次
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (u *UpstashIndex) do(ctx context.Context, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("序列化请求失败: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("向量存储请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		//响应体当不透明文本带出，不做二次解析
		return nil, fmt.Errorf("向量存储返回%d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
