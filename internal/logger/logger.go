// internal/logger/logger.go
package logger

import (
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zap.Logger with operation helpers.
type Logger struct {
	*zap.Logger
	config *Config
}

// New builds a logger with a console core and a rotated JSON file core.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := zapcore.InfoLevel
	if cfg.Development {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if cfg.Console {
		consoleEncoder := PrettyEncoder()
		if cfg.Development {
			consoleConfig := encoderConfig
			consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			consoleEncoder = zapcore.NewConsoleEncoder(consoleConfig)
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level))
	}
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level))
	}
	if len(cores) == 0 {
		return &Logger{Logger: zap.NewNop(), config: cfg}, nil
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

// WithOperation creates a logger for one operation with a correlation id.
func (l *Logger) WithOperation(operation string) *zap.Logger {
	return WithOperation(l.Logger, operation)
}

// WithOperation tags any zap logger with an operation name and correlation id.
func WithOperation(log *zap.Logger, operation string) *zap.Logger {
	return log.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// WithComponent adds the component name.
func (l *Logger) WithComponent(component string) *zap.Logger {
	return l.With(zap.String("component", component))
}

// Sync flushes buffers, ignoring the errors terminals return for stdout.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if err != nil && (errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)) {
		return nil
	}
	return err
}

// TrackPerformance logs the duration of an operation when the returned func runs.
func TrackPerformance(log *zap.Logger, operation string) (end func()) {
	start := time.Now()
	opLogger := WithOperation(log, operation)
	opLogger.Debug("Starting operation")

	return func() {
		duration := time.Since(start)
		opLogger.Debug("Operation completed",
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	}
}
