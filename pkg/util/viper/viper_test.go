package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

type sample struct {
	Name  string `mapstructure:"name"`
	Count int    `mapstructure:"count"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "conf.yaml", "app:\n  name: demo\n  count: 3\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.IsSet("app.name"))
	assert.Equal(t, "demo", c.GetString("app.name"))

	var s sample
	require.NoError(t, c.UnmarshalKey("app", &s))
	assert.Equal(t, sample{Name: "demo", Count: 3}, s)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "conf.json", `{"app": {"name": "demo", "count": 7}}`)

	c, err := Load(path)
	require.NoError(t, err)

	var all struct {
		App sample `mapstructure:"app"`
	}
	require.NoError(t, c.Unmarshal(&all))
	assert.Equal(t, 7, all.App.Count)
}

func TestUnmarshalMissingKeyKeepsValue(t *testing.T) {
	path := writeFile(t, "conf.yaml", "other: 1\n")
	c, err := Load(path)
	require.NoError(t, err)

	s := sample{Name: "keep"}
	require.NoError(t, c.UnmarshalKey("app", &s))
	assert.Equal(t, "keep", s.Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, merr.ErrIoFileNotFound))

	path := writeFile(t, "conf.toml", "a = 1\n")
	_, err = Load(path)
	assert.True(t, errors.Is(err, merr.ErrParameterInvalid))

	path = writeFile(t, "bad.json", "{not json")
	_, err = Load(path)
	assert.True(t, errors.Is(err, merr.ErrParameterInvalid))
}
