package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. The console format uses zap's development preset, json its production preset.
// An unknown level falls back to info
func New(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	switch format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	default:
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Encoding = "console"
	}

	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Standard output carries the timetable
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
