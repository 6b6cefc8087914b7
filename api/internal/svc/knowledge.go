package svc

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"PortfolioAgent/api/internal/utils"

	"github.com/zeromicro/go-zero/core/logx"
)

// 静态知识来源：读取目录下的txt与pdf文件并拼接。
// 目录缺失或单个文件读取失败都只记日志，返回已拿到的部分。
type StaticSource struct {
	dir string
}

func NewStaticSource(dir string) *StaticSource {
	return &StaticSource{dir: dir}
}

func (s *StaticSource) Fetch(ctx context.Context) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logx.WithContext(ctx).Errorf("读取知识目录失败: %v", err)
		return "", nil
	}

	//固定文件顺序，保证同步结果可复现
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		var text string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt", ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				logx.WithContext(ctx).Errorf("读取知识文件失败（%s）: %v", name, err)
				continue
			}
			text = string(data)
		case ".pdf":
			extracted, err := utils.ExtractPDFFile(path)
			if err != nil {
				logx.WithContext(ctx).Errorf("提取PDF失败（%s）: %v", name, err)
				continue
			}
			text = extracted
		default:
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
