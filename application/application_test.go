package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objkit-go/pkg/fileutil"
	"github.com/lk2023060901/objkit-go/pkg/serializer"
)

const appYAML = `log:
  level: warn
  stdout: false
logging:
  persist:
    level: debug
    stdout: false
persist:
  serializer: msgpack
  compression: zstd
  poolSize: 1
`

func TestRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appYAML), 0o600))

	app := New()
	require.NoError(t, app.RunWithArgs([]string{"--config", path}))
	defer app.Close()

	require.NotNil(t, app.Config())
	assert.Equal(t, "msgpack", app.Config().GetString("persist.serializer"))
	p := app.Persister()
	require.NotNil(t, p)
	assert.Equal(t, serializer.NameMsgPack, p.Codec().Serializer().Name())
	assert.NotNil(t, app.Logger("persist"))
	assert.NotNil(t, app.Logger("unknown"))

	out := filepath.Join(dir, "data", "v.bin")
	require.NoError(t, p.ExportBinaryAsync(context.Background(), map[string]int{"a": 1}, out, false).Err())
	data, err := p.ImportBinary(context.Background(), out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRunWithoutConfig(t *testing.T) {
	chdir(t, t.TempDir())

	app := New()
	require.NoError(t, app.RunWithArgs(nil))
	defer app.Close()

	assert.Nil(t, app.Config())
	assert.Equal(t, serializer.NameCBOR, app.Persister().Codec().Serializer().Name())
	assert.Equal(t, fileutil.DefaultConfig().Serializer, serializer.NameCBOR)
}

func TestRunConfigErrors(t *testing.T) {
	app := New()
	assert.Error(t, app.RunWithArgs([]string{"--config"}))
	assert.Error(t, app.RunWithArgs([]string{"--config=" + filepath.Join(t.TempDir(), "missing.yaml")}))

	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, app.RunWithArgs(nil))
}

func TestGetenv(t *testing.T) {
	t.Setenv("OBJKIT_TEST_BOOL", "on")
	t.Setenv("OBJKIT_TEST_STR", " value ")
	assert.True(t, getenvBool("OBJKIT_TEST_BOOL", false))
	assert.False(t, getenvBool("OBJKIT_TEST_UNSET", false))
	assert.Equal(t, "value", getenvDefault("OBJKIT_TEST_STR", "def"))
	assert.Equal(t, "def", getenvDefault("OBJKIT_TEST_UNSET", "def"))
}
