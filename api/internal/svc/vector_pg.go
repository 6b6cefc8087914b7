package svc

import (
	"context"
	"fmt"
	"sort"

	"PortfolioAgent/api/internal/config"
	"PortfolioAgent/api/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// pgvector后端：pgx连接池 + 本地嵌入，余弦距离检索
type PgIndex struct {
	pool     *pgxpool.Pool
	embedder types.Embedder
	table    string
}

func NewPgIndex(cfg config.PostgresConf, embedder types.Embedder) (*PgIndex, error) {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConn)
	//注册vector类型编解码
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}

	return &PgIndex{
		pool:     pool,
		embedder: embedder,
		table:    cfg.Table,
	}, nil
}

// Reset 清空全部记录。清空到写完之间的并发查询会看到部分数据，
// 检索方按"未命中上下文"容忍该窗口。
func (p *PgIndex) Reset(ctx context.Context) error {
	sql := fmt.Sprintf(`DELETE FROM %s`, p.table)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("清空索引失败: %w", err)
	}
	return nil
}

// Upsert 批量写入知识块
func (p *PgIndex) Upsert(ctx context.Context, chunks []types.KnowledgeChunk) error {
	sql := fmt.Sprintf(
		`INSERT INTO %s (id, content, source, embedding) VALUES ($1, $2, $3, $4)`, p.table)

	for _, ch := range chunks {
		embedding, err := p.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("生成嵌入失败: %w", err)
		}
		if _, err := p.pool.Exec(ctx, sql,
			ch.ID, ch.Text, ch.Source, pgvector.NewVector(embedding)); err != nil {
			return fmt.Errorf("写入失败: %w", err)
		}
	}
	return nil
}

// Query 余弦相似度检索
func (p *PgIndex) Query(ctx context.Context, text string, topK int, minScore float64) ([]types.RetrievalResult, error) {
	queryEmbedding, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("生成查询嵌入失败: %w", err)
	}

	sql := fmt.Sprintf(
		`SELECT content, 1 - (embedding <=> $1) AS score FROM %s ORDER BY embedding <=> $1 LIMIT $2`,
		p.table)
	rows, err := p.pool.Query(ctx, sql, pgvector.NewVector(queryEmbedding), topK)
	if err != nil {
		return nil, fmt.Errorf("知识检索失败: %w", err)
	}
	defer rows.Close()

	var results []types.RetrievalResult
	for rows.Next() {
		var content string
		var score float64
		if err := rows.Scan(&content, &score); err != nil {
			return nil, fmt.Errorf("扫描结果失败: %w", err)
		}
		if score < minScore {
			continue
		}
		results = append(results, types.RetrievalResult{Text: content, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// 测试数据库连接
func (p *PgIndex) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
