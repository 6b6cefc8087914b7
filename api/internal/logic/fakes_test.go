package logic

import (
	"context"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"
)

// 记录调用的假向量索引
type fakeIndex struct {
	results  []types.RetrievalResult
	queryErr error

	store   []types.KnowledgeChunk //当前索引内容，Reset清空
	resets  int
	batches []int //每次Upsert的批大小
	queries []string
}

func (f *fakeIndex) Reset(ctx context.Context) error {
	f.resets++
	f.store = nil
	return nil
}

func (f *fakeIndex) Upsert(ctx context.Context, chunks []types.KnowledgeChunk) error {
	f.batches = append(f.batches, len(chunks))
	f.store = append(f.store, chunks...)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, text string, topK int, minScore float64) ([]types.RetrievalResult, error) {
	f.queries = append(f.queries, text)
	return f.results, f.queryErr
}

// 假调用器：记录收到的请求，按脚本返回
type fakeInvoker struct {
	reply string
	err   error

	calls       int
	gotMessages []types.ChatMessage
	gotParams   types.GenerationParams
}

func (f *fakeInvoker) Invoke(ctx context.Context, messages []types.ChatMessage, params types.GenerationParams) (string, error) {
	f.calls++
	f.gotMessages = messages
	f.gotParams = params
	return f.reply, f.err
}

type fakeSource struct {
	text string
	err  error
}

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	return f.text, f.err
}

type fakeSink struct {
	rows [][]string
	err  error
}

func (f *fakeSink) AppendRow(ctx context.Context, row []string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

// 永远拿不到锁，用来模拟已有同步在跑
type busyLock struct{}

func (busyLock) TryLock(ctx context.Context) (func(), bool) { return nil, false }

func testConfig() config.Config {
	var c config.Config
	c.Assistant.Persona = testPersona
	c.Assistant.RefusalPhrase = testRefusal
	c.Assistant.MaxContextChars = 6000
	c.Retrieval.TopK = 5
	c.Retrieval.MinScore = 0.70
	c.LLM.Temperature = 0.7
	c.LLM.TopP = 0.95
	c.LLM.MaxOutputTokens = 1024
	c.Knowledge.MinContentLength = 100
	c.Knowledge.ChunkSize = 1000
	c.Knowledge.ChunkOverlap = 100
	c.Knowledge.StaticChunkGuess = 3
	return c
}

func testServiceContext(c config.Config) *svc.ServiceContext {
	return &svc.ServiceContext{
		Config:        c,
		VectorIndex:   &fakeIndex{},
		Invoker:       &fakeInvoker{},
		StaticSource:  &fakeSource{},
		DynamicSource: &fakeSource{},
		FeedbackSink:  &fakeSink{},
		SyncLock:      svc.NewLocalSyncLock(),
	}
}
