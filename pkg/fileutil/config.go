package fileutil

import (
	"io/fs"

	"github.com/lk2023060901/objkit-go/pkg/binaryutil"
	"github.com/lk2023060901/objkit-go/pkg/compressor"
	"github.com/lk2023060901/objkit-go/pkg/serializer"
	"github.com/lk2023060901/objkit-go/pkg/util/merr"
	"github.com/lk2023060901/objkit-go/pkg/util/viper"
)

// ConfigKey 是持久化配置在配置文件中的根键。
const ConfigKey = "persist"

// Config 描述 Persister 的可配置项。
type Config struct {
	Separator   string `mapstructure:"separator" json:"separator"`
	Indent      string `mapstructure:"indent" json:"indent"`
	Serializer  string `mapstructure:"serializer" json:"serializer"`
	Digest      string `mapstructure:"digest" json:"digest"`
	Compression string `mapstructure:"compression" json:"compression"`
	PoolSize    int    `mapstructure:"poolSize" json:"poolSize"`
	DirPerm     uint32 `mapstructure:"dirPerm" json:"dirPerm"`
	FilePerm    uint32 `mapstructure:"filePerm" json:"filePerm"`
}

// DefaultConfig 返回与包级函数行为一致的默认配置。
func DefaultConfig() Config {
	return Config{
		Separator:   DefaultSeparator,
		Indent:      "  ",
		Serializer:  serializer.NameCBOR,
		Digest:      string(binaryutil.DefaultAlgorithm),
		Compression: compressor.NameNone,
		PoolSize:    0,
		DirPerm:     uint32(DefaultDirPerm),
		FilePerm:    uint32(DefaultFilePerm),
	}
}

// LoadConfig 从 YAML/JSON 文件的 persist 节读取配置，未出现的字段保留默认值。
func LoadConfig(path string) (Config, error) {
	c, err := viper.Load(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ConfigFrom(c)
}

// ConfigFrom 从已加载的配置中读取 persist 节，c 为 nil 时返回默认配置。
func ConfigFrom(c *viper.Config) (Config, error) {
	cfg := DefaultConfig()
	if c == nil {
		return cfg, nil
	}
	if err := c.UnmarshalKey(ConfigKey, &cfg); err != nil {
		return cfg, merr.WrapErrParameterInvalidMsg("unmarshal %s config: %s", ConfigKey, err.Error())
	}
	return cfg, nil
}

// NewFromConfig 根据 cfg 创建 Persister，opts 在配置之后生效。
func NewFromConfig(cfg Config, opts ...Option) (*Persister, error) {
	s, err := serializer.ByName(cfg.Serializer)
	if err != nil {
		return nil, err
	}
	alg, err := binaryutil.ParseAlgorithm(cfg.Digest)
	if err != nil {
		return nil, err
	}
	codec, err := binaryutil.New(binaryutil.WithSerializer(s), binaryutil.WithDigest(alg))
	if err != nil {
		return nil, err
	}
	comp, err := compressor.ByName(cfg.Compression)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithCodec(codec),
		WithCompressor(comp),
		WithDefaultSeparator(cfg.Separator),
		WithIndent(cfg.Indent),
		WithPoolSize(cfg.PoolSize),
	}
	if cfg.DirPerm != 0 {
		base = append(base, WithDirPerm(fs.FileMode(cfg.DirPerm)))
	}
	if cfg.FilePerm != 0 {
		base = append(base, WithFilePerm(fs.FileMode(cfg.FilePerm)))
	}
	return New(append(base, opts...)...)
}
