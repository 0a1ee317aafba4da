package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

type ZapLogger struct {
	log *zap.SugaredLogger
}

var current atomic.Pointer[ZapLogger]

func NewLogger(config zap.Config) (*ZapLogger, error) {
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	logger = logger.WithOptions(zap.AddCallerSkip(2))
	l := &ZapLogger{log: logger.Sugar()}
	current.Store(l)
	return l, nil
}

func GetLogger() *ZapLogger {
	l := current.Load()
	if l == nil {
		panic("logger not initialized")
	}
	return l
}

// With returns a logger that adds the key-value pairs to every entry.
func (l *ZapLogger) With(values ...any) *ZapLogger {
	return &ZapLogger{log: l.log.With(values...)}
}

func (l *ZapLogger) Panic(message string, values ...any) {
	l.log.Panicw(message, values...)
}

func (l *ZapLogger) Fatal(error error, values ...any) {
	l.log.Fatalw(error.Error(), values...)
}

func (l *ZapLogger) Info(message string, values ...any) {
	l.log.Infow(message, values...)
}

func (l *ZapLogger) Warn(message string, values ...any) {
	l.log.Warnw(message, values...)
}

func (l *ZapLogger) Error(message string, values ...any) {
	l.log.Errorw(message, values...)
}

func (l *ZapLogger) Debug(message string, values ...any) {
	l.log.Debugw(message, values...)
}

func (l *ZapLogger) Printf(format string, args ...any) {
	l.log.Infof(format, args...)
}
