package logger

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const ansiReset = "\033[0m"

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  "\033[36m",
	zapcore.InfoLevel:   "\033[32m",
	zapcore.WarnLevel:   "\033[33m",
	zapcore.ErrorLevel:  "\033[31m",
	zapcore.DPanicLevel: "\033[31;1m",
	zapcore.PanicLevel:  "\033[31;1m",
	zapcore.FatalLevel:  "\033[31;1m",
}

// PrettyEncoder is the console encoder for cmd/server: clock time, coloured
// level, component name, message, then fields. Callers and stacks only go
// to the JSON file core.
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "component",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     clockEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})
}

func levelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	label := "[" + level.CapitalString() + "]"
	if color, ok := levelColors[level]; ok {
		label = color + label + ansiReset
	}
	enc.AppendString(label)
}

func clockEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.TimeOnly))
}
