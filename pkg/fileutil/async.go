package fileutil

import (
	"context"

	"github.com/lk2023060901/objkit-go/pkg/util/conc"
)

// ExportBinaryAsync 在调用方 goroutine 中完成序列化，随后把写文件提交到协程池。
// 返回的 Future 在写入完成后就绪；同一路径上的多个异步调用之间没有顺序保证。
func (p *Persister) ExportBinaryAsync(ctx context.Context, v any, path string, appendMode bool) *conc.Future[struct{}] {
	data, err := p.encodeBinary(v)
	if err != nil {
		return failed[struct{}](err)
	}
	return submit(p.exportPool, func() (struct{}, error) {
		return struct{}{}, p.writeBinary(ctx, data, path, appendMode)
	})
}

// ExportJSONAsync 在调用方 goroutine 中完成 JSON 编码，随后把写文件提交到协程池。
func (p *Persister) ExportJSONAsync(ctx context.Context, v any, path string, opts ...JSONOption) *conc.Future[struct{}] {
	appendMode, sep := p.resolveJSONOptions(opts)
	data, err := p.encodeJSON(v)
	if err != nil {
		return failed[struct{}](err)
	}
	return submit(p.exportPool, func() (struct{}, error) {
		return struct{}{}, p.writeJSON(ctx, data, path, appendMode, sep)
	})
}

// ImportBinaryAsync 把 ImportBinary 提交到协程池执行。
func (p *Persister) ImportBinaryAsync(ctx context.Context, path string) *conc.Future[[]byte] {
	return submit(p.importPool, func() ([]byte, error) {
		return p.ImportBinary(ctx, path)
	})
}

// submit 在 pool 为 nil 时退化为单独启动一个 goroutine。
func submit[T any](pool *conc.Pool[T], fn func() (T, error)) *conc.Future[T] {
	if pool == nil {
		return conc.Go(fn)
	}
	return pool.Submit(fn)
}

func failed[T any](err error) *conc.Future[T] {
	return conc.Go(func() (T, error) {
		var zero T
		return zero, err
	})
}
