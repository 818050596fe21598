package fileutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/objkit-go/internal/json"
	"github.com/lk2023060901/objkit-go/pkg/log"
	"github.com/lk2023060901/objkit-go/pkg/metrics"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

type jsonOption struct {
	append    bool
	separator *string
}

// JSONOption 用于配置单次 ExportJSON 调用。
type JSONOption func(*jsonOption)

// WithAppend 指定是否以追加方式写入。
func WithAppend(append bool) JSONOption {
	return func(o *jsonOption) {
		o.append = append
	}
}

// WithSeparator 覆盖本次追加写入使用的分隔符。
func WithSeparator(sep string) JSONOption {
	return func(o *jsonOption) {
		o.separator = &sep
	}
}

// ExportJSON 将 v 编码为缩进格式的 JSON 文本写入 path，父目录不存在时自动创建。
//
// v 为 nil（包括 nil 指针、map、slice 等）时写入一个空文件，追加模式下同样会截断。
// 追加模式且文件已存在时，先写入分隔符再写入新文档；文件不存在时直接写入。
// 父目录在编码之前创建，编码失败时目录仍会保留。
func (p *Persister) ExportJSON(ctx context.Context, v any, path string, opts ...JSONOption) error {
	appendMode, sep := p.resolveJSONOptions(opts)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.ensureDir(path); err != nil {
		observe(p.CtxLogger(ctx), metrics.OpExport, FormatJSON, path, time.Now(), 0, err)
		return err
	}

	data, err := p.encodeJSON(v)
	if err != nil {
		p.CtxLogger(ctx).Warn("encode json failed", log.FieldPath(path), zap.Error(err))
		return err
	}
	return p.writeJSON(ctx, data, path, appendMode, sep)
}

// resolveJSONOptions 合并单次调用的选项与 Persister 的默认分隔符。
func (p *Persister) resolveJSONOptions(opts []JSONOption) (appendMode bool, sep string) {
	opt := jsonOption{}
	for _, o := range opts {
		o(&opt)
	}
	sep = p.separator
	if opt.separator != nil {
		sep = *opt.separator
	}
	return opt.append, sep
}

func (p *Persister) encodeJSON(v any) ([]byte, error) {
	if isNil(v) {
		return nil, nil
	}
	data, err := json.MarshalIndent(v, "", p.indent)
	if err != nil {
		return nil, merr.WrapErrJSONEncodeFailed(v, err)
	}
	return data, nil
}

// writeJSON 写入已编码的文档，data 为 nil 表示写入空文件。
func (p *Persister) writeJSON(ctx context.Context, data []byte, path string, appendMode bool, sep string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	logger := p.CtxLogger(ctx).With(zap.Bool("append", appendMode))
	err := p.ensureDir(path)
	if err != nil {
		observe(logger, metrics.OpExport, FormatJSON, path, start, 0, err)
		return err
	}

	switch {
	case data == nil:
		err = p.writeFile(path, nil, false)
	case appendMode && fileExists(path):
		buf := make([]byte, 0, len(sep)+len(data))
		buf = append(buf, sep...)
		data = append(buf, data...)
		err = p.writeFile(path, data, true)
	default:
		err = p.writeFile(path, data, false)
	}
	observe(logger, metrics.OpExport, FormatJSON, path, start, len(data), err)
	return err
}

// ImportJSONWith 使用 p 读取 path 的全部内容并解码为一个 T。
// 文件中只能包含单个 JSON 文档，追加写入产生的多文档文件请使用 ReadJSONSequence。
func ImportJSONWith[T any](ctx context.Context, p *Persister, path string) (T, error) {
	var out T
	data, err := p.readJSON(ctx, path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		err = merr.WrapErrJSONDecodeFailed(path, err)
		p.CtxLogger(ctx).Warn("decode json failed", log.FieldPath(path), zap.Error(err))
		return out, err
	}
	return out, nil
}

// ReadJSONSequenceWith 读取追加模式写出的文件，按 separator 拆分后逐个解码。
// separator 不能出现在任何一个文档的编码结果中。空文件返回空切片。
func ReadJSONSequenceWith[T any](ctx context.Context, p *Persister, path string, separator string) ([]T, error) {
	if separator == "" {
		return nil, merr.WrapErrParameterMissing("separator")
	}
	data, err := p.readJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	for i, doc := range bytes.Split(data, []byte(separator)) {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, merr.WrapErrJSONDecodeFailed(fmt.Sprintf("%s#%d", path, i), err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *Persister) readJSON(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := readFile(path)
	observe(p.CtxLogger(ctx), metrics.OpImport, FormatJSON, path, start, len(data), err)
	return data, err
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// isNil 判断 v 是否为 nil 或持有 nil 值的引用类型。
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
