package logic

import (
	"fmt"
	"strings"

	"PortfolioAgent/api/internal/types"
	"PortfolioAgent/api/internal/utils"
)

const (
	//知识片段之间的分隔符，让模型能分清块边界
	contextSeparator = "\n---\n"
	//检索无命中时写进系统提示的说明
	noContextNote = "(no portfolio context was found for this question)"
)

// BuildMessages 组装一次模型请求：
// 人设 + 只按上下文作答的约束 + 检索到的知识 + 历史会话 + 当前问题。
// 知识总量受maxContextChars限制，超限整块丢弃，尽量不切半块。
func BuildMessages(persona, refusalPhrase string, contexts []string,
	history []types.ChatMessage, question string, maxContextChars int) []types.ChatMessage {

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nAnswer using ONLY the context below. ")
	b.WriteString(fmt.Sprintf("If the answer is not in the context, reply exactly: %q. ", refusalPhrase))
	b.WriteString("Never invent facts about the portfolio.")
	b.WriteString("\n\nContext:\n")
	b.WriteString(buildContextBlock(contexts, maxContextChars))

	messages := []types.ChatMessage{
		{Role: types.RoleSystem, Content: b.String()},
	}
	//历史按时间顺序原样附加
	messages = append(messages, history...)
	//当前问题作为最后一条用户消息
	messages = append(messages, types.ChatMessage{
		Role:    types.RoleUser,
		Content: question,
	})
	return messages
}

func buildContextBlock(contexts []string, maxContextChars int) string {
	if len(contexts) == 0 {
		return noContextNote
	}
	if maxContextChars <= 0 {
		maxContextChars = 6000
	}

	var b strings.Builder
	used := 0
	for i, chunk := range contexts {
		cost := len([]rune(chunk))
		if i > 0 {
			cost += len(contextSeparator)
		}
		if used+cost > maxContextChars {
			//第一块就超限时退化为截断，保证至少有上下文可用
			if i == 0 {
				b.WriteString(utils.TruncateText(chunk, maxContextChars))
			}
			break
		}
		if i > 0 {
			b.WriteString(contextSeparator)
		}
		b.WriteString(chunk)
		used += cost
	}
	return b.String()
}

// dropIntroTurn 去掉开头的欢迎气泡：它只属于界面，不该进模型历史
func dropIntroTurn(history []types.ChatMessage) []types.ChatMessage {
	if len(history) > 0 && history[0].Role == types.RoleAssistant {
		return history[1:]
	}
	return history
}
