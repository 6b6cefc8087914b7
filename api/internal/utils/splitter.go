package utils

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// SplitText 按固定长度切分文本，相邻分块共享overlap个字符，
// 保留跨块的局部上下文。结果确定：相同输入必得相同切分。
// 空文本返回nil；不超过chunkSize的文本原样作为单块返回。
func SplitText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		//末尾不足chunkSize的内容随最后一块带出，不丢弃
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// TruncateText 截断到max个字符，保留前缀
func TruncateText(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
