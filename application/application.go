package application

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lk2023060901/objkit-go/pkg/fileutil"
	zlog "github.com/lk2023060901/objkit-go/pkg/log"
	"github.com/lk2023060901/objkit-go/pkg/metrics"
	zviper "github.com/lk2023060901/objkit-go/pkg/util/viper"
)

const (
	defaultConfigPath = "./objkit.yaml"

	envConfigPath = "OBJKIT_CONFIG_FILE_PATH"
	envLogLevel   = "OBJKIT_LOG_LEVEL"
	envLogStdout  = "OBJKIT_LOG_STDOUT"
	envLogFormat  = "OBJKIT_LOG_FORMAT"
)

// Application is the runtime container of an objkit process.
// It owns configuration, loggers and the persister built from them.
type Application struct {
	cfg       *zviper.Config
	loggers   map[string]*zlog.MLogger
	persister *fileutil.Persister
}

// New creates a new Application instance.
func New() *Application {
	return &Application{}
}

// Run loads configuration from os.Args and initializes all components.
func (a *Application) Run() error {
	return a.RunWithArgs(os.Args[1:])
}

// RunWithArgs resolves the config file path using the following priority:
//  1. Default: ./objkit.yaml (optional, skipped when absent)
//  2. Env: OBJKIT_CONFIG_FILE_PATH
//  3. CLI: --config <path> or --config=<path>
func (a *Application) RunWithArgs(args []string) error {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return err
	}

	metrics.Register(prometheus.DefaultRegisterer)

	persistCfg, err := fileutil.ConfigFrom(a.cfg)
	if err != nil {
		return err
	}
	p, err := fileutil.NewFromConfig(persistCfg, fileutil.WithLogger(a.Logger("persist")))
	if err != nil {
		return fmt.Errorf("init persister: %w", err)
	}
	a.persister = p

	zlog.Info("application started",
		zlog.FieldComponent("persist"),
		zap.String("serializer", persistCfg.Serializer),
		zap.String("compression", persistCfg.Compression))
	return nil
}

// Close releases the persister and flushes loggers.
func (a *Application) Close() {
	if a.persister != nil {
		a.persister.Close()
	}
	_ = zlog.Sync()
}

// Config returns the loaded configuration, nil when no config file was found.
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// Persister returns the persister configured from the "persist" section.
func (a *Application) Persister() *fileutil.Persister {
	return a.persister
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return &zlog.MLogger{Logger: zlog.L()}
}

func (a *Application) loadConfig(args []string) (*zviper.Config, error) {
	configPath := defaultConfigPath
	explicit := false

	if envPath := os.Getenv(envConfigPath); envPath != "" {
		configPath = envPath
		explicit = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value after --config")
			}
			configPath = args[i+1]
			explicit = true
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				configPath = val
				explicit = true
			}
		}
	}

	if !explicit {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, nil
		}
	}

	cfg, err := zviper.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
	}
	return cfg, nil
}

func (a *Application) initLogging() error {
	if err := a.initGlobalLogger(); err != nil {
		return err
	}
	return a.initModuleLoggers()
}

// initGlobalLogger configures the process-wide logger from the "log" section.
// OBJKIT_LOG_* env vars override the file values.
func (a *Application) initGlobalLogger() error {
	cfg := &zlog.Config{
		Level:  "info",
		Format: "text",
		Stdout: true,
	}
	if a.cfg != nil {
		if err := a.cfg.UnmarshalKey("log", cfg); err != nil {
			return fmt.Errorf("unmarshal log config: %w", err)
		}
	}
	cfg.Level = getenvDefault(envLogLevel, cfg.Level)
	cfg.Format = getenvDefault(envLogFormat, cfg.Format)
	cfg.Stdout = getenvBool(envLogStdout, cfg.Stdout)

	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("init global logger: %w", err)
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

// initModuleLoggers creates named loggers from the "logging" section.
//
// Example:
//
//	logging:
//	  persist:
//	    level: debug
//	    stdout: true
//	    file:
//	      rootpath: ./logs
//	      filename: persist.log
func (a *Application) initModuleLoggers() error {
	if a.cfg == nil {
		return nil
	}

	raw := make(map[string]zlog.Config)
	if err := a.cfg.UnmarshalKey("logging", &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zlog.MLogger, len(raw))
	for name, lc := range raw {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return fmt.Errorf("init module logger %q: %w", name, err)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger.With(zlog.FieldModule(name))}
	}
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
