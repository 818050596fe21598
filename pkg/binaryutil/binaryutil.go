// Package binaryutil 提供对象的二进制序列化、按区间反序列化以及内容摘要计算。
//
// 包级函数使用默认 Codec（CBOR + SHA-1），不持有任何可变状态；
// 需要其它序列化方案或摘要算法时通过 New 构造独立的 Codec。
package binaryutil

import (
	"github.com/lk2023060901/objkit-go/pkg/serializer"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

// ToEnd 作为 length 参数时表示“从 offset 一直读到缓冲区末尾”，而不是读取 0 个字节。
const ToEnd = 0

// Codec 将对象编码为字节序列，并基于编码结果计算摘要。
// Codec 创建后只读，可被多个 goroutine 并发使用。
type Codec struct {
	serializer serializer.Serializer
	digest     digester
}

// Option 用于配置 Codec。
type Option func(*codecOption)

type codecOption struct {
	serializer serializer.Serializer
	algorithm  Algorithm
}

// WithSerializer 指定二进制序列化方案，默认 CBOR。
func WithSerializer(s serializer.Serializer) Option {
	return func(opt *codecOption) {
		opt.serializer = s
	}
}

// WithDigest 指定摘要算法，默认 SHA-1。
func WithDigest(algorithm Algorithm) Option {
	return func(opt *codecOption) {
		opt.algorithm = algorithm
	}
}

// New 创建一个 Codec。
func New(opts ...Option) (*Codec, error) {
	opt := &codecOption{
		serializer: serializer.Default,
		algorithm:  DefaultAlgorithm,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.serializer == nil {
		return nil, merr.WrapErrParameterMissing("serializer")
	}
	d, err := newDigester(opt.algorithm)
	if err != nil {
		return nil, err
	}
	return &Codec{
		serializer: opt.serializer,
		digest:     d,
	}, nil
}

// Serializer 返回当前使用的序列化方案。
func (c *Codec) Serializer() serializer.Serializer {
	return c.serializer
}

// DigestAlgorithm 返回当前使用的摘要算法。
func (c *Codec) DigestAlgorithm() Algorithm {
	return c.digest.algorithm
}

// Serialize 将 v 及其可达的整个对象图编码为字节序列。
// v 中包含通道、函数等无法编码的值时返回 merr.ErrSerializeUnsupported。
func (c *Codec) Serialize(v any) ([]byte, error) {
	data, err := c.serializer.Marshal(v)
	if err != nil {
		return nil, merr.WrapErrSerializeUnsupported(v, err)
	}
	return data, nil
}

// Deserialize 将 data[offset:offset+length] 解码到 v（必须为指针）。
//
// length 为 ToEnd 时使用 offset 之后的全部字节。区间越界返回
// merr.ErrIndexOutOfRange，字节与目标类型不匹配返回 merr.ErrDeserializeFailed。
// 区间内第一个完整值之后的字节被忽略。
func (c *Codec) Deserialize(data []byte, v any, offset, length int) error {
	window, err := Slice(data, offset, length)
	if err != nil {
		return err
	}
	if err := c.serializer.Unmarshal(window, v); err != nil {
		return merr.WrapErrDeserializeFailed(v, err)
	}
	return nil
}

// ComputeDigest 序列化 v 并返回编码结果的大写十六进制摘要。
func (c *Codec) ComputeDigest(v any) (string, error) {
	data, err := c.Serialize(v)
	if err != nil {
		return "", err
	}
	return c.DigestBytes(data), nil
}

// DigestBytes 返回 data 的大写十六进制摘要，长度为摘要字节数的两倍。
func (c *Codec) DigestBytes(data []byte) string {
	return c.digest.sum(data)
}

// DigestLen 返回摘要字符串的固定长度。
func (c *Codec) DigestLen() int {
	return c.digest.size * 2
}

// Slice 按 offset/length 截取 data，length 为 ToEnd 表示截取到末尾。
func Slice(data []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > len(data) {
		return nil, merr.WrapErrIndexOutOfRange(offset, length, len(data))
	}
	if length == ToEnd {
		return data[offset:], nil
	}
	if length > len(data)-offset {
		return nil, merr.WrapErrIndexOutOfRange(offset, length, len(data))
	}
	return data[offset : offset+length : offset+length], nil
}

var defaultCodec = mustNew()

func mustNew(opts ...Option) *Codec {
	c, err := New(opts...)
	if err != nil {
		panic("binaryutil: " + err.Error())
	}
	return c
}

// Default 返回包级函数使用的默认 Codec。
func Default() *Codec {
	return defaultCodec
}

// Serialize 使用默认 Codec 序列化 v。
func Serialize(v any) ([]byte, error) {
	return defaultCodec.Serialize(v)
}

// Deserialize 使用默认 Codec 将 data[offset:offset+length] 解码到 v。
func Deserialize(data []byte, v any, offset, length int) error {
	return defaultCodec.Deserialize(data, v, offset, length)
}

// DeserializeAs 使用默认 Codec 将 data[offset:offset+length] 解码为 T。
func DeserializeAs[T any](data []byte, offset, length int) (T, error) {
	return DeserializeWith[T](defaultCodec, data, offset, length)
}

// DeserializeWith 使用指定 Codec 将 data[offset:offset+length] 解码为 T。
func DeserializeWith[T any](c *Codec, data []byte, offset, length int) (T, error) {
	var out T
	if err := c.Deserialize(data, &out, offset, length); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ComputeDigest 使用默认 Codec 计算 v 的摘要。
func ComputeDigest(v any) (string, error) {
	return defaultCodec.ComputeDigest(v)
}

// DigestBytes 使用默认摘要算法计算 data 的摘要。
func DigestBytes(data []byte) string {
	return defaultCodec.DigestBytes(data)
}
