package serializer

import (
	"bytes"

	"github.com/lk2023060901/objkit-go/internal/json"
)

// JSONSerializer 使用 internal/json 输出紧凑 JSON 字节，便于人工排查二进制文件内容。
type JSONSerializer struct{}

// 编译期断言：确保 JSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONSerializer)(nil)

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal 去掉首尾空白后解码。JSON 文本不自带长度，拼接的多个值无法按偏移单独解码。
func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(bytes.TrimSpace(data), v)
}

func (JSONSerializer) Name() string { return NameJSON }
