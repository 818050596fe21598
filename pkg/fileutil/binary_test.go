package fileutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/objkit-go/pkg/binaryutil"
	"github.com/lk2023060901/objkit-go/pkg/compressor"
	"github.com/lk2023060901/objkit-go/pkg/metrics"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

type record struct {
	ID   int      `json:"id" cbor:"id" msgpack:"id"`
	Name string   `json:"name" cbor:"name" msgpack:"name"`
	Tags []string `json:"tags,omitempty" cbor:"tags,omitempty" msgpack:"tags,omitempty"`
}

type BinarySuite struct {
	suite.Suite
	dir string
	ctx context.Context
}

func (s *BinarySuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.ctx = context.Background()
}

func (s *BinarySuite) path(elem ...string) string {
	return filepath.Join(append([]string{s.dir}, elem...)...)
}

func (s *BinarySuite) TestRoundTrip() {
	in := record{ID: 1, Name: "alpha", Tags: []string{"x", "y"}}
	path := s.path("a", "b", "c", "file.bin")

	s.Require().NoError(ExportBinary(s.ctx, in, path, false))

	st, err := os.Stat(s.path("a", "b", "c"))
	s.Require().NoError(err)
	s.True(st.IsDir())

	data, err := ImportBinary(s.ctx, path)
	s.Require().NoError(err)
	expected, err := binaryutil.Serialize(in)
	s.Require().NoError(err)
	s.Equal(expected, data)

	out, err := binaryutil.DeserializeAs[record](data, 0, binaryutil.ToEnd)
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *BinarySuite) TestOverwrite() {
	path := s.path("file.bin")
	s.Require().NoError(ExportBinary(s.ctx, record{ID: 1, Name: "a much longer name than the next one"}, path, false))
	s.Require().NoError(ExportBinary(s.ctx, record{ID: 2, Name: "b"}, path, false))

	data, err := ImportBinary(s.ctx, path)
	s.Require().NoError(err)
	expected, err := binaryutil.Serialize(record{ID: 2, Name: "b"})
	s.Require().NoError(err)
	s.Equal(expected, data)
}

func (s *BinarySuite) TestAppend() {
	first := record{ID: 1, Name: "first"}
	second := record{ID: 2, Name: "second", Tags: []string{"t"}}
	path := s.path("seq", "file.bin")

	s.Require().NoError(ExportBinary(s.ctx, first, path, true))
	s.Require().NoError(ExportBinary(s.ctx, second, path, true))

	a, err := binaryutil.Serialize(first)
	s.Require().NoError(err)
	b, err := binaryutil.Serialize(second)
	s.Require().NoError(err)

	data, err := ImportBinary(s.ctx, path)
	s.Require().NoError(err)
	s.Len(data, len(a)+len(b))

	got1, err := binaryutil.DeserializeAs[record](data, 0, binaryutil.ToEnd)
	s.Require().NoError(err)
	s.Equal(first, got1)
	got2, err := binaryutil.DeserializeAs[record](data, len(a), binaryutil.ToEnd)
	s.Require().NoError(err)
	s.Equal(second, got2)
}

func (s *BinarySuite) TestEmptyFile() {
	path := s.path("empty.bin")
	s.Require().NoError(os.WriteFile(path, nil, 0o644))

	data, err := ImportBinary(s.ctx, path)
	s.Require().NoError(err)
	s.Empty(data)
}

func (s *BinarySuite) TestImportNotFound() {
	_, err := ImportBinary(s.ctx, s.path("missing.bin"))
	s.True(errors.Is(err, merr.ErrIoFileNotFound))
}

func (s *BinarySuite) TestImportDirectory() {
	_, err := ImportBinary(s.ctx, s.dir)
	s.True(errors.Is(err, merr.ErrIoFailed))
}

func (s *BinarySuite) TestExportUnsupported() {
	path := s.path("unsupported", "chan.bin")
	err := ExportBinary(s.ctx, make(chan int), path, false)
	s.True(errors.Is(err, merr.ErrSerializeUnsupported))
	s.NoFileExists(path)
	// 父目录在序列化之前创建
	s.DirExists(s.path("unsupported"))
}

func (s *BinarySuite) TestParentIsFile() {
	blocker := s.path("blocker")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	err := ExportBinary(s.ctx, record{ID: 1}, filepath.Join(blocker, "file.bin"), false)
	s.True(errors.Is(err, merr.ErrIoFailed))
}

func (s *BinarySuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	path := s.path("canceled.bin")
	err := ExportBinary(ctx, record{ID: 1}, path, false)
	s.ErrorIs(err, context.Canceled)
	s.NoFileExists(path)

	_, err = ImportBinary(ctx, path)
	s.ErrorIs(err, context.Canceled)
}

func (s *BinarySuite) TestCompressed() {
	zstd, err := compressor.NewZstdCompressor()
	s.Require().NoError(err)
	p, err := New(WithCompressor(zstd))
	s.Require().NoError(err)
	defer p.Close()

	first := record{ID: 1, Name: "compressed"}
	second := record{ID: 2, Name: "compressed again"}
	path := s.path("z", "file.bin.zst")
	s.Require().NoError(p.ExportBinary(s.ctx, first, path, true))
	s.Require().NoError(p.ExportBinary(s.ctx, second, path, true))

	a, err := binaryutil.Serialize(first)
	s.Require().NoError(err)
	b, err := binaryutil.Serialize(second)
	s.Require().NoError(err)

	raw, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.NotEqual(append(append([]byte{}, a...), b...), raw)

	data, err := p.ImportBinary(s.ctx, path)
	s.Require().NoError(err)
	s.Equal(append(append([]byte{}, a...), b...), data)

	// 未压缩的文件无法按 zstd 解压
	plain := s.path("plain.bin")
	s.Require().NoError(ExportBinary(s.ctx, first, plain, false))
	_, err = p.ImportBinary(s.ctx, plain)
	s.True(errors.Is(err, merr.ErrDecompressFailed))
}

func (s *BinarySuite) TestClosedCompressor() {
	zstd, err := compressor.NewZstdCompressor()
	s.Require().NoError(err)
	p, err := New(WithCompressor(zstd))
	s.Require().NoError(err)

	path := s.path("closed.bin.zst")
	s.Require().NoError(p.ExportBinary(s.ctx, record{ID: 1}, path, false))
	p.Close()

	err = p.ExportBinary(s.ctx, record{ID: 2}, path, false)
	s.True(errors.Is(err, merr.ErrCompressFailed))
	_, err = p.ImportBinary(s.ctx, path)
	s.True(errors.Is(err, merr.ErrDecompressFailed))
	err = p.ImportBinaryAsync(s.ctx, path).Err()
	s.True(errors.Is(err, merr.ErrDecompressFailed))
}

func (s *BinarySuite) TestMetrics() {
	failed := metrics.PersistOperations.WithLabelValues(metrics.OpImport, FormatBinary, metrics.FailLabel)
	before := testutil.ToFloat64(failed)
	_, err := ImportBinary(s.ctx, s.path("missing.bin"))
	s.Error(err)
	s.Equal(before+1, testutil.ToFloat64(failed))

	written := metrics.PersistBytes.WithLabelValues(metrics.OpExport, FormatBinary)
	before = testutil.ToFloat64(written)
	in := record{ID: 9, Name: "metrics"}
	s.Require().NoError(ExportBinary(s.ctx, in, s.path("m.bin"), false))
	data, err := binaryutil.Serialize(in)
	s.Require().NoError(err)
	s.Equal(before+float64(len(data)), testutil.ToFloat64(written))
}

func TestBinary(t *testing.T) {
	suite.Run(t, new(BinarySuite))
}

func TestNewInvalid(t *testing.T) {
	_, err := New(WithCodec(nil))
	assert.True(t, errors.Is(err, merr.ErrParameterMissing))

	_, err = New(WithPoolSize(-1))
	assert.True(t, errors.Is(err, merr.ErrParameterInvalid))
}

func TestPersisterCodec(t *testing.T) {
	codec, err := binaryutil.New(binaryutil.WithDigest(binaryutil.SHA256))
	require.NoError(t, err)
	p, err := New(WithCodec(codec), WithFilePerm(0o600), WithDirPerm(0o700))
	require.NoError(t, err)
	defer p.Close()
	assert.Same(t, codec, p.Codec())

	path := filepath.Join(t.TempDir(), "nested", "perm.bin")
	require.NoError(t, p.ExportBinary(context.Background(), record{ID: 3}, path, false))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm()&0o600)
}
