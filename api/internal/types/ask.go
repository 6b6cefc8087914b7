package types

// 会话消息（由前端完整传入，服务端不保存会话）
type ChatMessage struct {
	Role    string `json:"role"`    //消息角色 user/assistant
	Content string `json:"content"` //消息内容
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type AskReq struct {
	Messages     []ChatMessage `json:"messages"`               //按时间顺序的会话历史，最后一条为当前问题
	SystemPrompt string        `json:"systemPrompt,optional"`  //人设覆盖（留空用配置默认）
	Knowledge    string        `json:"knowledge,optional"`     //调用方附加的额外上下文
	Model        string        `json:"model,optional"`         //模型覆盖（只作用于第一个尝试）
	Temperature  *float32      `json:"temperature,optional"`   //生成参数覆盖，越界值不做校验直接透传
	TopP         *float32      `json:"topP,optional"`
	TopK         *int          `json:"topK,optional"`
	MaxOutputTokens *int       `json:"maxOutputTokens,optional"`
}

type AskResp struct {
	Reply string `json:"reply"`
}

// 统一错误响应体
type ErrorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// 生成参数集合，由请求覆盖配置默认后传给调用器
type GenerationParams struct {
	Model           string  //模型覆盖（空表示用尝试列表里的配置）
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}
