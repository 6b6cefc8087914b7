package types

type SyncResp struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks"` //本次写入的知识块数量
}

type FeedbackReq struct {
	Feedback          string `json:"feedback"`                   //Yes 或 No
	MessageId         string `json:"messageId,optional"`         //前端反馈气泡ID，缺省时服务端生成
	OriginalQuestion  string `json:"originalQuestion"`           //被评价回答对应的问题
	AssistantResponse string `json:"assistantResponse"`          //被评价的回答文本
	Timestamp         string `json:"timestamp,optional"`         //ISO8601，缺省取服务端时间
}

type FeedbackResp struct {
	Success bool `json:"success"`
}
