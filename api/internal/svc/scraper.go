package svc

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// 动态知识来源：登录作品集站点并抽取正文。
// 任何失败都降级为返回空串，同步流程只用静态知识继续。
type SiteFetcher struct {
	siteURL  string
	password string
	client   *http.Client
}

func NewSiteFetcher(siteURL, password string) *SiteFetcher {
	jar, _ := cookiejar.New(nil)
	return &SiteFetcher{
		siteURL:  siteURL,
		password: password,
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|svg|nav|footer)[^>]*>.*?</\s*(script|style|svg|nav|footer)\s*>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
)

func (s *SiteFetcher) Fetch(ctx context.Context) (string, error) {
	if s.siteURL == "" || s.password == "" {
		logx.WithContext(ctx).Info("站点地址或密码未配置，跳过抓取")
		return "", nil
	}

	//1.提交密码做登录（站点用简单表单保护）
	form := url.Values{"password": {s.password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.siteURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if resp, err := s.client.Do(req); err != nil {
		logx.WithContext(ctx).Errorf("站点登录失败: %v", err)
		return "", nil
	} else {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	//2.抓取页面
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, s.siteURL, nil)
	if err != nil {
		return "", nil
	}
	resp, err := s.client.Do(req)
	if err != nil {
		logx.WithContext(ctx).Errorf("抓取页面失败: %v", err)
		return "", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logx.WithContext(ctx).Errorf("抓取页面返回%d", resp.StatusCode)
		return "", nil
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		logx.WithContext(ctx).Errorf("读取页面失败: %v", err)
		return "", nil
	}

	//3.去掉脚本样式等噪声标签后提取正文
	content := ExtractPageText(string(html))
	logx.WithContext(ctx).Infof("抓取完成，得到%d个字符", len(content))
	return content, nil
}

// ExtractPageText 从HTML中抽取可读正文
func ExtractPageText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = spaceRe.ReplaceAllString(text, " ")

	//去掉空行噪声
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return blankRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
}
