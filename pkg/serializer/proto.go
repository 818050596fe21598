package serializer

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

// ProtoSerializer 使用 Protobuf 进行二进制序列化。
//
// 注意：传入/传出的对象必须实现 proto.Message。
// 每条消息带有 varint 长度前缀，因此多条消息拼接后仍可逐条解码。
type ProtoSerializer struct{}

// 编译期断言：确保 ProtoSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoSerializer)(nil)

var protoMarshalOptions = protodelim.MarshalOptions{
	MarshalOptions: proto.MarshalOptions{Deterministic: true},
}

func (ProtoSerializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("serializer: ProtoSerializer requires proto.Message, got %T", v)
	}
	var buf bytes.Buffer
	if _, err := protoMarshalOptions.MarshalTo(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ProtoSerializer) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("serializer: ProtoSerializer requires proto.Message, got %T", v)
	}
	return protodelim.UnmarshalFrom(bytes.NewReader(data), msg)
}

func (ProtoSerializer) Name() string { return NameProto }
