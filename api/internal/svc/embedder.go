package svc

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAI兼容的嵌入客户端，vecgo/pgvector后端用它做本地向量化
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewOpenAIEmbedder(client *openai.Client, model string, dim int) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: client,
		model:  model,
		dim:    dim,
	}
}

// Embed 生成文本向量
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, e.dim), nil
	}
	resp, err := e.client.CreateEmbeddings(ctx,
		openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(e.model),
		})
	if err != nil {
		return nil, fmt.Errorf("嵌入接口报错: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("未返回嵌入数据")
	}
	return resp.Data[0].Embedding, nil
}
