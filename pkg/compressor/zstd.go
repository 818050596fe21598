package compressor

import (
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的压缩实现。
//
// 它持有独立的 encoder/decoder 实例，不使用全局单例，
// 由调用方自行决定实例的生命周期与复用策略。
type ZstdCompressor struct {
	// mu 保护 enc/dec 与 Close 之间的并发访问。
	mu              sync.RWMutex
	enc             *zstd.Encoder
	dec             *zstd.Decoder
	minCompressSize int
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建一个 ZstdCompressor，默认并发度为 CPU 核心数。
func NewZstdCompressor() (*ZstdCompressor, error) {
	return NewZstdCompressorWithConcurrency(0)
}

// NewZstdCompressorWithConcurrency 创建一个 ZstdCompressor，并允许显式指定 zstd 的并发数。
//
// 参数说明：
//   - concurrency <= 0：使用 runtime.NumCPU()。
//   - concurrency > 0 ：使用指定并发度。
func NewZstdCompressorWithConcurrency(concurrency int) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	opts := []zstd.EOption{
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency),
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(concurrency))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{
		enc: enc,
		dec: dec,
	}, nil
}

// SetMinCompressSize 设置触发压缩的最小字节数。
//
// 注意：低于阈值的数据原样返回，Decompress 无法区分，因此只应在
// 读写两端约定一致的场景下使用。
func (c *ZstdCompressor) SetMinCompressSize(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.minCompressSize = n
	c.mu.Unlock()
}

// Compress 实现 Compressor 接口。
func (c *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if c == nil {
		return nil, zstd.ErrEncoderClosed
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.enc == nil {
		return nil, zstd.ErrEncoderClosed
	}

	// 小于阈值时不压缩，直接返回原始数据。
	if c.minCompressSize > 0 && len(src) < c.minCompressSize {
		return src, nil
	}

	out := c.enc.EncodeAll(src, dst[:0])
	return out, nil
}

// Decompress 实现 Compressor 接口。
func (c *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if c == nil {
		return nil, zstd.ErrDecoderClosed
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dec == nil {
		return nil, zstd.ErrDecoderClosed
	}
	out, err := c.dec.DecodeAll(src, dst[:0])
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ZstdCompressor) Name() string { return NameZstd }

// Close 释放内部 encoder/decoder 持有的资源。
//
// Close 会等待正在进行的 Compress/Decompress 完成，之后的调用返回
// ErrEncoderClosed/ErrDecoderClosed。重复调用是安全的。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}
