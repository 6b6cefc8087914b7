package config

import "github.com/zeromicro/go-zero/rest"

type Config struct {
	rest.RestConf
	Auth struct {
		Token      string `json:"token"`      //前端调用令牌
		CronSecret string `json:"cronSecret"` //定时同步令牌（与前端令牌分开）
	}
	Assistant struct {
		Persona         string `json:"persona"`                      //助手人设（系统提示词）
		RefusalPhrase   string `json:"refusalPhrase"`                //上下文缺失时的固定拒答语
		MaxContextChars int    `json:"maxContextChars,default=6000"` //注入知识的总字符上限
	}
	Retrieval struct {
		TopK     int     `json:"topK,default=5"`        //检索返回条数
		MinScore float64 `json:"minScore,default=0.70"` //相关度阈值，低于该值的片段丢弃
	}
	LLM struct {
		//核心生成参数（透传给模型服务，不在本地校验）
		Temperature     float32 `json:"temperature,default=0.7"`
		TopP            float32 `json:"topP,default=0.95"`
		TopK            int     `json:"topK,optional"`
		MaxOutputTokens int     `json:"maxOutputTokens,default=1024"`
		TimeoutSeconds  int     `json:"timeoutSeconds,default=30"` //单次尝试的网络超时

		//按顺序逐个尝试的降级列表
		Attempts []Attempt `json:"attempts"`

		Gemini struct {
			ApiKey string `json:"apiKey,optional"` //Gemini API密钥
		}
		OpenAI struct {
			ApiKey         string `json:"apiKey,optional"`         //API密钥（本地部署留空）
			BaseURL        string `json:"baseUrl,optional"`        //API基础地址
			EmbeddingModel string `json:"embeddingModel,optional"` //嵌入模型名称
			EmbeddingDim   int    `json:"embeddingDim,default=1536"`
		}
	}
	Vector struct {
		Backend string `json:"backend,default=upstash"` //upstash | vecgo | pgvector
		URL     string `json:"url,optional"`            //Upstash Vector REST地址
		Token   string `json:"token,optional"`          //Upstash Vector令牌
	}
	Knowledge struct {
		Dir              string `json:"dir"`                          //静态知识目录（txt/pdf）
		SiteURL          string `json:"siteUrl,optional"`             //作品集站点地址
		SitePassword     string `json:"sitePassword,optional"`        //站点访问密码（留空则跳过抓取）
		MinContentLength int    `json:"minContentLength,default=100"` //低于该长度视为无内容可索引
		ChunkSize        int    `json:"chunkSize,default=1000"`
		ChunkOverlap     int    `json:"chunkOverlap,default=100"`
		StaticChunkGuess int    `json:"staticChunkGuess,default=3"` //前几个分块按静态来源标记
	}
	Postgres PostgresConf `json:"postgres,optional"`
	Redis    struct {
		Addr     string `json:"addr,optional"` //留空则使用进程内互斥
		Password string `json:"password,optional"`
	}
	Sheets struct {
		SpreadsheetId  string `json:"spreadsheetId,optional"`  //留空则反馈只写日志
		CredentialFile string `json:"credentialFile,optional"` //服务账号JSON路径
		Range          string `json:"range,default=Feedback!A:E"`
	}
}

// 按顺序尝试的调用描述：提供方+接口版本+模型名
type Attempt struct {
	Provider string `json:"provider"`         //gemini | openai
	Version  string `json:"version,optional"` //API版本（如v1beta/v1，openai不使用）
	Model    string `json:"model"`            //模型名称
}

// pgvector后端配置
type PostgresConf struct {
	Host     string `json:"host,optional"`
	Port     int    `json:"port,default=5432"`
	User     string `json:"user,optional"`
	Password string `json:"password,optional"`
	DBName   string `json:"dbName,optional"`
	Table    string `json:"table,default=knowledge_chunks"`
	MaxConn  int    `json:"maxConn,default=10"`
}
