// Package json 为项目提供统一的 JSON 文本编解码入口。
//
// 在 amd64/arm64 上使用 bytedance/sonic，其余平台退回到 json-iterator，
// 两者均配置为与标准库 encoding/json 行为兼容。
package json

// DefaultIndent 为缩进输出时每一层使用的缩进字符串。
const DefaultIndent = "  "

// Marshal 将 v 编码为紧凑的 JSON 文本。
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent 将 v 编码为带缩进的 JSON 文本。
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal 将 JSON 文本解码到 v（必须为指针）。
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Valid 判断 data 是否为合法的 JSON 文本。
func Valid(data []byte) bool {
	return api.Valid(data)
}

// engine 是两种实现共同满足的最小接口。
type engine interface {
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Valid(data []byte) bool
}
