package fileutil

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/objkit-go/pkg/compressor"
	"github.com/lk2023060901/objkit-go/pkg/log"
	"github.com/lk2023060901/objkit-go/pkg/metrics"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

// ExportBinary 将 v 序列化后写入 path，父目录不存在时自动创建。
// appendMode 为 false 时覆盖已有文件，为 true 时追加到文件末尾。
func (p *Persister) ExportBinary(ctx context.Context, v any, path string, appendMode bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.ensureDir(path); err != nil {
		observe(p.CtxLogger(ctx), metrics.OpExport, FormatBinary, path, time.Now(), 0, err)
		return err
	}

	data, err := p.encodeBinary(v)
	if err != nil {
		p.CtxLogger(ctx).Warn("encode binary failed", log.FieldPath(path), zap.Error(err))
		return err
	}
	return p.writeBinary(ctx, data, path, appendMode)
}

// ImportBinary 读取 path 的全部内容并原样返回，不做反序列化。
func (p *Persister) ImportBinary(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := readFile(path)
	if err == nil {
		data, err = p.decompress(path, data)
	}
	observe(p.CtxLogger(ctx), metrics.OpImport, FormatBinary, path, start, len(data), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Persister) encodeBinary(v any) ([]byte, error) {
	data, err := p.codec.Serialize(v)
	if err != nil {
		return nil, err
	}
	if p.compressor.Name() == compressor.NameNone {
		return data, nil
	}
	out, err := p.compressor.Compress(nil, data)
	if err != nil {
		return nil, merr.WrapErrCompressFailed(err)
	}
	return out, nil
}

func (p *Persister) decompress(path string, data []byte) ([]byte, error) {
	if p.compressor.Name() == compressor.NameNone || len(data) == 0 {
		return data, nil
	}
	out, err := p.compressor.Decompress(nil, data)
	if err != nil {
		return nil, merr.WrapErrDecompressFailed(path, err)
	}
	return out, nil
}

func (p *Persister) writeBinary(ctx context.Context, data []byte, path string, appendMode bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := p.ensureDir(path)
	if err == nil {
		err = p.writeFile(path, data, appendMode)
	}
	observe(p.CtxLogger(ctx).With(zap.Bool("append", appendMode)), metrics.OpExport, FormatBinary, path, start, len(data), err)
	return err
}

// readFull 与 io.ReadFull 相同，但把读到文件末尾视为正常结束。
func readFull(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}
