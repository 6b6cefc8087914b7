package svc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/oauth2/google"
)

const sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// Google Sheets反馈落地：服务账号鉴权，往表里追加一行
type SheetsSink struct {
	spreadsheetId string
	sheetRange    string
	client        *http.Client
}

func NewSheetsSink(spreadsheetId, credentialFile, sheetRange string) (*SheetsSink, error) {
	creds, err := os.ReadFile(credentialFile)
	if err != nil {
		return nil, fmt.Errorf("读取服务账号凭证失败: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(creds, sheetsScope)
	if err != nil {
		return nil, fmt.Errorf("解析服务账号凭证失败: %w", err)
	}

	return &SheetsSink{
		spreadsheetId: spreadsheetId,
		sheetRange:    sheetRange,
		client:        conf.Client(context.Background()),
	}, nil
}

// AppendRow 追加一行反馈记录
func (s *SheetsSink) AppendRow(ctx context.Context, row []string) error {
	values := make([]any, 0, len(row))
	for _, v := range row {
		values = append(values, v)
	}
	payload, err := json.Marshal(map[string]any{"values": []any{values}})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(
		"https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		s.spreadsheetId, url.PathEscape(s.sheetRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("写入反馈表失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("反馈表返回%d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// 未配置表格时的兜底实现：反馈只进服务端日志
type LogSink struct{}

func (LogSink) AppendRow(ctx context.Context, row []string) error {
	logx.WithContext(ctx).Infof("收到反馈: [%s]", strings.Join(row, ", "))
	return nil
}
