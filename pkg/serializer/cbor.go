package serializer

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode 使用 Core Deterministic Encoding（RFC 8949 §4.2）：
// map key 排序、整数最短编码、不使用不定长编码。相同的值总是得到相同的字节，
// 摘要计算依赖这一点。
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("serializer: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// 目标为 any 时使用 map[string]any，与 JSON 解码结果保持一致。
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// 目标结构体中不存在的字段视为类型不匹配，而不是静默丢弃。
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("serializer: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBORSerializer 基于 github.com/fxamacker/cbor/v2 的默认二进制序列化实现。
type CBORSerializer struct{}

// 编译期断言：确保 CBORSerializer 实现了 Serializer 接口。
var _ Serializer = (*CBORSerializer)(nil)

func (CBORSerializer) Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal 只解码第一个 CBOR 数据项，忽略其后的字节。
func (CBORSerializer) Unmarshal(data []byte, v any) error {
	_, err := decMode.UnmarshalFirst(data, v)
	return err
}

func (CBORSerializer) Name() string { return NameCBOR }
