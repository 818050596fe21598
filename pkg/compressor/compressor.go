package compressor

import "github.com/lk2023060901/objkit-go/pkg/util/merr"

// Compressor 抽象了“单次压缩/解压”能力。
//
// 面向整块内存数据（例如一次序列化的结果），不做流式处理。
type Compressor interface {
	// Compress 将 src 压缩到 dst。
	//
	// dst 一般可以传入一个可复用的缓冲区（长度可为 0），实现可选择复用其底层容量；
	// 返回值 packet 为压缩后的完整数据。
	Compress(dst, src []byte) (packet []byte, err error)

	// Decompress 将压缩数据 src 解压到 dst。
	//
	// 行为约定与 Compress 对称：src 必须是 Compress 的输出。
	Decompress(dst, src []byte) (plain []byte, err error)

	// Name 返回压缩算法名称。
	Name() string
}

const (
	NameNone = "none"
	NameZstd = "zstd"
)

// NopCompressor 是一个空实现：不做任何压缩/解压，直接返回输入内容。
type NopCompressor struct{}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Name() string { return NameNone }

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}

// ByName 根据名称创建 Compressor，名称为空或 "none" 时返回 NopCompressor。
func ByName(name string) (Compressor, error) {
	switch name {
	case "", NameNone:
		return NopCompressor{}, nil
	case NameZstd:
		return NewZstdCompressor()
	default:
		return nil, merr.WrapErrParameterInvalid(NameZstd, name, "unknown compressor")
	}
}
