// Package fileutil 提供对象到文件的持久化能力：二进制与 JSON 两种格式，
// 支持覆盖与追加写入，写入前自动创建缺失的父目录。
//
// 包级函数使用默认 Persister（CBOR 序列化、不压缩、不使用协程池）。
package fileutil

import (
	"context"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

var defaultPersister = mustNew()

func mustNew(opts ...Option) *Persister {
	p, err := New(opts...)
	if err != nil {
		panic(merr.WrapErrParameterInvalidMsg("default persister: %s", err.Error()))
	}
	return p
}

// Default 返回包级函数使用的 Persister。
func Default() *Persister {
	return defaultPersister
}

// ExportBinary 使用默认 Persister 将 v 序列化后写入 path。
func ExportBinary(ctx context.Context, v any, path string, appendMode bool) error {
	return defaultPersister.ExportBinary(ctx, v, path, appendMode)
}

// ImportBinary 使用默认 Persister 读取 path 的原始字节。
func ImportBinary(ctx context.Context, path string) ([]byte, error) {
	return defaultPersister.ImportBinary(ctx, path)
}

// ExportJSON 使用默认 Persister 将 v 以 JSON 文本写入 path。
func ExportJSON(ctx context.Context, v any, path string, opts ...JSONOption) error {
	return defaultPersister.ExportJSON(ctx, v, path, opts...)
}

// ImportJSON 使用默认 Persister 读取 path 并解码为 T。
func ImportJSON[T any](ctx context.Context, path string) (T, error) {
	return ImportJSONWith[T](ctx, defaultPersister, path)
}

// ReadJSONSequence 使用默认 Persister 读取追加模式写出的 JSON 文件。
func ReadJSONSequence[T any](ctx context.Context, path string, separator string) ([]T, error) {
	return ReadJSONSequenceWith[T](ctx, defaultPersister, path, separator)
}
