package viper

import (
	"os"
	"path/filepath"
	"strings"

	spfviper "github.com/spf13/viper"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

// Config 封装 spf13/viper 实例，对外提供精简的 YAML/JSON 配置加载接口。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
// 在调用 Unmarshal/UnmarshalKey 之前需要先调用 LoadFile 加载配置文件。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

// Load 创建 Config 并加载 path 指向的配置文件。
func Load(path string) (*Config, error) {
	c := New()
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile 将 YAML 或 JSON 配置文件加载到 Config 中。
// 文件类型通过扩展名（.yaml/.yml/.json）推断，其他扩展名返回 ErrParameterInvalid。
func (c *Config) LoadFile(path string) error {
	if c.v == nil {
		c.v = spfviper.New()
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		c.v.SetConfigType("yaml")
	case ".json":
		c.v.SetConfigType("json")
	default:
		return merr.WrapErrParameterInvalidMsg("unsupported config file type %q", ext)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return merr.WrapErrIoFileNotFound(path)
		}
		return merr.WrapErrIoFailed(path, err)
	}

	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return merr.WrapErrParameterInvalidMsg("read config %s: %s", path, err.Error())
	}
	return nil
}

// SetDefault 设置 key 的默认值，仅在配置文件未提供该 key 时生效。
func (c *Config) SetDefault(key string, value any) {
	c.v.SetDefault(key, value)
}

// IsSet 判断配置中是否存在 key。
func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// GetString 返回 key 对应的字符串，不存在时返回空串。
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) Unmarshal(dst any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
// key 不存在时 dst 保持原值。
func (c *Config) UnmarshalKey(key string, dst any) error {
	if c.v == nil || !c.v.IsSet(key) {
		return nil
	}
	return c.v.UnmarshalKey(key, dst)
}
