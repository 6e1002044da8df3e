package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface components depend on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Infow(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{s: s}
}

func (l *ZapLogger) Debugf(format string, args ...any)      { l.s.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...any)       { l.s.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)       { l.s.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any)      { l.s.Errorf(format, args...) }
func (l *ZapLogger) Infow(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l *ZapLogger) Errorw(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }

// New builds a console logger writing to w at the given level
// ("debug", "info", "warn", "error").
func New(level string, w io.Writer) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// Sugar wraps a zap.Logger as a Logger.
func Sugar(l *zap.Logger) Logger {
	return NewZapLogger(l.Sugar())
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZapLogger(zap.NewNop().Sugar())
}
