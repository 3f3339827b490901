package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error)
	Level string
	// ServiceName is attached to every log entry
	ServiceName string
	// Development enables the console encoder and debug defaults
	Development bool
}

var (
	mu     sync.Mutex
	global *zap.Logger = zap.NewNop()
)

// Init initializes the global logger from the given configuration.
// It must be called once at startup before Get.
func Init(cfg *Config) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			// Unknown level strings fall back to info rather than failing boot
			level = zapcore.InfoLevel
		}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zapCfg.Build(zap.AddCaller())
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	global = l
	mu.Unlock()
	return nil
}

// Get returns the global logger. Safe to call before Init (returns a no-op logger).
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	mu.Lock()
	l := global
	mu.Unlock()
	_ = l.Sync()
}
