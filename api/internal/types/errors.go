package types

import (
	"errors"
	"fmt"
)

var (
	//会话历史为空，无法取出当前问题
	ErrNoQuestion = errors.New("会话历史为空")
	//静态与动态来源都没有产出内容
	ErrSourceUnavailable = errors.New("知识来源不可用")
	//模型返回成功但没有可提取的文本（多为安全过滤），终态，不再降级
	ErrEmptyReply = errors.New("模型返回空内容")
)

// 模型服务错误：携带状态码与原始响应体。
// 响应体解析失败时Body保留原文，避免掩盖真实错误。
type ProviderError struct {
	Code        int
	Body        string
	Recoverable bool //是否属于可降级类（限流/版本不匹配/瞬时过载）
}

func (e *ProviderError) Error() string {
	if e.Recoverable {
		return fmt.Sprintf("模型服务暂不可用（%d）：%s", e.Code, e.Body)
	}
	return fmt.Sprintf("模型服务错误（%d）：%s", e.Code, e.Body)
}

// 面向用户的固定话术分类
const (
	AnswerRateLimited   = "The assistant is receiving too many requests right now. Please try again in a moment."
	AnswerSafetyBlocked = "The assistant could not produce an answer for this question. Please try rephrasing it."
	AnswerInternalError = "Something went wrong while generating the answer. Please try again."
)

// 问答失败：Message是唯一允许展示给用户的文案，原始诊断只进日志
type AnswerError struct {
	Message string //固定话术之一
	Cause   error
}

func (e *AnswerError) Error() string { return e.Message }

func (e *AnswerError) Unwrap() error { return e.Cause }
