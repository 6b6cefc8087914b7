package svc

import (
	"time"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"

	openai "github.com/sashabaranov/go-openai"
	"github.com/zeromicro/go-zero/core/logx"
)

// 进程级依赖：启动时装配一次，按引用注入各请求，不做运行时替换
type ServiceContext struct {
	Config        config.Config
	VectorIndex   types.VectorIndex
	Invoker       types.ModelInvoker
	StaticSource  types.ContentSource
	DynamicSource types.ContentSource
	FeedbackSink  types.FeedbackSink
	SyncLock      SyncLock
}

func NewServiceContext(c config.Config) *ServiceContext {
	openaiClient := newOpenAIClient(c)

	return &ServiceContext{
		Config:        c,
		VectorIndex:   newVectorIndex(c, openaiClient),
		Invoker:       newInvoker(c, openaiClient),
		StaticSource:  NewStaticSource(c.Knowledge.Dir),
		DynamicSource: NewSiteFetcher(c.Knowledge.SiteURL, c.Knowledge.SitePassword),
		FeedbackSink:  newFeedbackSink(c),
		SyncLock:      newSyncLock(c),
	}
}

func newOpenAIClient(c config.Config) *openai.Client {
	conf := openai.DefaultConfig(c.LLM.OpenAI.ApiKey)
	if c.LLM.OpenAI.BaseURL != "" {
		conf.BaseURL = c.LLM.OpenAI.BaseURL
	}
	return openai.NewClientWithConfig(conf)
}

// 按配置选择向量索引后端
func newVectorIndex(c config.Config, openaiClient *openai.Client) types.VectorIndex {
	embedder := NewOpenAIEmbedder(openaiClient, c.LLM.OpenAI.EmbeddingModel, c.LLM.OpenAI.EmbeddingDim)

	switch c.Vector.Backend {
	case "vecgo":
		return NewVecgoIndex(embedder, c.LLM.OpenAI.EmbeddingDim)
	case "pgvector":
		idx, err := NewPgIndex(c.Postgres, embedder)
		logx.Must(err)
		return idx
	default:
		return NewUpstashIndex(c.Vector.URL, c.Vector.Token)
	}
}

func newInvoker(c config.Config, openaiClient *openai.Client) types.ModelInvoker {
	providers := map[string]ModelProvider{
		"gemini": NewGeminiProvider(c.LLM.Gemini.ApiKey),
		"openai": NewOpenAIProvider(openaiClient),
	}
	return NewFallbackInvoker(providers, c.LLM.Attempts,
		time.Duration(c.LLM.TimeoutSeconds)*time.Second)
}

func newFeedbackSink(c config.Config) types.FeedbackSink {
	if c.Sheets.SpreadsheetId == "" {
		return LogSink{}
	}
	sink, err := NewSheetsSink(c.Sheets.SpreadsheetId, c.Sheets.CredentialFile, c.Sheets.Range)
	logx.Must(err)
	return sink
}

func newSyncLock(c config.Config) SyncLock {
	if c.Redis.Addr != "" {
		return NewRedisSyncLock(c.Redis.Addr, c.Redis.Password)
	}
	return NewLocalSyncLock()
}
