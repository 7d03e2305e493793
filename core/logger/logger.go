package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	zc, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

// zapConfig starts from zap's development preset for "debug" and from the
// production preset otherwise, then applies the level and encoding.
func zapConfig(cfg *Config) (zap.Config, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Format {
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	case "", "json":
		zc.Encoding = "json"
	default:
		return zap.Config{}, fmt.Errorf("log format %q is neither json nor console", cfg.Format)
	}

	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.MessageKey = "message"
	return zc, nil
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals("ray_id").(string); ok && rid != "" {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}
