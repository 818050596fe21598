package serializer

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackSerializer 使用 MessagePack 编码（github.com/vmihailenco/msgpack/v5）。
// 编码时开启 map key 排序。
type MsgPackSerializer struct{}

// 编译期断言：确保 MsgPackSerializer 实现了 Serializer 接口。
var _ Serializer = (*MsgPackSerializer)(nil)

func (MsgPackSerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgPackSerializer) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

func (MsgPackSerializer) Name() string { return NameMsgPack }
