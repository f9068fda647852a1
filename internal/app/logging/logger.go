package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a console logger writing timestamped lines to w.
// verbose lowers the threshold from Info to Debug.
func NewLogger(verbose bool, w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stdout
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// MustNewStdoutLogger creates the CLI logger on stdout.
func MustNewStdoutLogger(verbose bool) *zap.Logger {
	return NewLogger(verbose, os.Stdout)
}

func encoderConfig() zapcore.EncoderConfig {
	config := zap.NewDevelopmentEncoderConfig()
	config.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000")
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncodeDuration = zapcore.StringDurationEncoder
	config.CallerKey = zapcore.OmitKey
	config.NameKey = zapcore.OmitKey
	return config
}
