package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/objkit-go/pkg/binaryutil"
	"github.com/lk2023060901/objkit-go/pkg/compressor"
	"github.com/lk2023060901/objkit-go/pkg/log"
	"github.com/lk2023060901/objkit-go/pkg/metrics"
	"github.com/lk2023060901/objkit-go/pkg/util/conc"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

const (
	// DefaultSeparator 为 JSON 追加写入时两个文档之间的分隔符。
	DefaultSeparator = ",\r\n"

	DefaultDirPerm  fs.FileMode = 0o755
	DefaultFilePerm fs.FileMode = 0o644

	FormatBinary = "binary"
	FormatJSON   = "json"
)

// Persister 负责把对象以二进制或 JSON 形式写入文件、以及从文件读回。
//
// Persister 不持有任何与文件相关的状态，每次调用都重新解析路径；
// 对同一路径的并发写入不做任何协调。
type Persister struct {
	log.Binder

	codec      *binaryutil.Codec
	compressor compressor.Compressor
	separator  string
	indent     string
	dirPerm    fs.FileMode
	filePerm   fs.FileMode

	poolSize   int
	exportPool *conc.Pool[struct{}]
	importPool *conc.Pool[[]byte]
}

// Option 用于配置 Persister。
type Option func(*Persister)

// WithCodec 指定二进制导出使用的 Codec，默认 binaryutil.Default()。
func WithCodec(c *binaryutil.Codec) Option {
	return func(p *Persister) {
		p.codec = c
	}
}

// WithCompressor 为二进制导入导出开启压缩。
// 开启后文件内容不再等于 Serialize 的输出，读写两端必须使用相同的压缩算法。
func WithCompressor(c compressor.Compressor) Option {
	return func(p *Persister) {
		p.compressor = c
	}
}

// WithDefaultSeparator 指定 JSON 追加写入的默认分隔符。
func WithDefaultSeparator(sep string) Option {
	return func(p *Persister) {
		p.separator = sep
	}
}

// WithIndent 指定 JSON 输出每一层的缩进字符串。
func WithIndent(indent string) Option {
	return func(p *Persister) {
		p.indent = indent
	}
}

// WithDirPerm 指定自动创建父目录时使用的权限。
func WithDirPerm(perm fs.FileMode) Option {
	return func(p *Persister) {
		p.dirPerm = perm
	}
}

// WithFilePerm 指定新建文件时使用的权限。
func WithFilePerm(perm fs.FileMode) Option {
	return func(p *Persister) {
		p.filePerm = perm
	}
}

// WithPoolSize 指定异步接口使用的协程池大小，0 表示每个异步调用单独启动 goroutine。
func WithPoolSize(n int) Option {
	return func(p *Persister) {
		p.poolSize = n
	}
}

// WithLogger 为 Persister 绑定 Logger。
func WithLogger(logger *log.MLogger) Option {
	return func(p *Persister) {
		p.SetLogger(logger)
	}
}

// New 创建一个 Persister。
func New(opts ...Option) (*Persister, error) {
	p := &Persister{
		codec:      binaryutil.Default(),
		compressor: compressor.NopCompressor{},
		separator:  DefaultSeparator,
		indent:     "  ",
		dirPerm:    DefaultDirPerm,
		filePerm:   DefaultFilePerm,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.codec == nil {
		return nil, merr.WrapErrParameterMissing("codec")
	}
	if p.compressor == nil {
		p.compressor = compressor.NopCompressor{}
	}
	if p.poolSize < 0 {
		return nil, merr.WrapErrParameterInvalidRange(0, 1<<16, p.poolSize, "pool size")
	}
	if p.poolSize > 0 {
		var err error
		p.exportPool, err = conc.NewPool[struct{}](p.poolSize)
		if err != nil {
			return nil, err
		}
		p.importPool, err = conc.NewPool[[]byte](p.poolSize)
		if err != nil {
			p.exportPool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Codec 返回二进制导出使用的 Codec。
func (p *Persister) Codec() *binaryutil.Codec {
	return p.codec
}

// Separator 返回 JSON 追加写入的默认分隔符。
func (p *Persister) Separator() string {
	return p.separator
}

// Close 释放协程池与压缩器持有的资源。
// 仍在执行的异步任务会继续运行，但此后使用压缩器的任务会失败；
// 需要完整结果时应先等待所有 Future 完成再调用 Close。
func (p *Persister) Close() {
	if p.exportPool != nil {
		p.exportPool.Release()
	}
	if p.importPool != nil {
		p.importPool.Release()
	}
	if closer, ok := p.compressor.(interface{ Close() }); ok {
		closer.Close()
	}
}

// ensureDir 递归创建 path 的父目录，已存在时不做任何事。
func (p *Persister) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, p.dirPerm); err != nil {
		return merr.WrapErrIoFailed(dir, err)
	}
	return nil
}

// writeFile 将 data 写入 path。appendMode 为 false 时截断文件，为 true 时追加到末尾；
// 文件不存在时均会创建。
func (p *Persister) writeFile(path string, data []byte, appendMode bool) (err error) {
	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, p.filePerm)
	if err != nil {
		return merr.WrapErrIoFailed(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = merr.WrapErrIoFailed(path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return merr.WrapErrIoFailed(path, err)
	}
	return nil
}

// readFile 读取 path 的全部内容，缓冲区大小以打开时的文件长度为准。
// 文件在读取过程中被截断时返回实际读到的字节。
func readFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.WrapErrIoFileNotFound(path)
		}
		return nil, merr.WrapErrIoFailed(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, merr.WrapErrIoFailed(path, err)
	}
	if st.IsDir() {
		return nil, merr.WrapErrIoFailedReason("is a directory", path)
	}

	buf := make([]byte, st.Size())
	n, err := readFull(f, buf)
	if err != nil {
		return nil, merr.WrapErrIoFailed(path, err)
	}
	return buf[:n], nil
}

func observe(logger *log.MLogger, op, format, path string, start time.Time, n int, err error) {
	elapsed := time.Since(start)
	status := metrics.SuccessLabel
	if err != nil {
		status = metrics.FailLabel
	}
	metrics.PersistOperations.WithLabelValues(op, format, status).Inc()
	metrics.PersistLatency.WithLabelValues(op, format).Observe(float64(elapsed.Milliseconds()))

	fields := []zap.Field{
		zap.String("op", op),
		log.FieldFormat(format),
		log.FieldPath(path),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		logger.Warn("persist operation failed", append(fields, zap.Error(err))...)
		return
	}
	metrics.PersistBytes.WithLabelValues(op, format).Add(float64(n))
	logger.Debug("persist operation done", append(fields, zap.Int("bytes", n))...)
}
