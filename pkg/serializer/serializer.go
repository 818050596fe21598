package serializer

import (
	"sort"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

// Serializer 抽象了“对象 <-> 字节流”的二进制序列化能力。
//
// 约定：
//   - Marshal 的输出是自描述的，不依赖外部 schema 即可还原对象。
//   - Unmarshal 只解码 data 中的第一个完整值，其后的字节被忽略，
//     因此多个编码结果首尾拼接后可以按偏移逐个解码。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error

	// Name 返回序列化方案名称，用于配置与日志。
	Name() string
}

const (
	NameCBOR    = "cbor"
	NameMsgPack = "msgpack"
	NameProto   = "proto"
	NameJSON    = "json"
)

var builtin = map[string]Serializer{
	NameCBOR:    CBORSerializer{},
	NameMsgPack: MsgPackSerializer{},
	NameProto:   ProtoSerializer{},
	NameJSON:    JSONSerializer{},
}

// Default 是未显式指定时使用的序列化方案。
var Default Serializer = CBORSerializer{}

// ByName 根据名称返回内置的 Serializer，名称为空时返回 Default。
func ByName(name string) (Serializer, error) {
	if name == "" {
		return Default, nil
	}
	s, ok := builtin[name]
	if !ok {
		return nil, merr.WrapErrParameterInvalid(Names(), []string{name}, "unknown serializer")
	}
	return s, nil
}

// Names 返回所有内置序列化方案的名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
