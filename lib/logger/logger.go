package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger takes a message followed by alternating key/value pairs,
// e.g. log.Debug("signed swap", "account", name).
type Logger interface {
	Debug(log ...any)
	Info(log ...any)
	Error(log ...any)
}

// ZapLogger writes structured logs tagged with a component name.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = &ZapLogger{}

func NewZapLogger(base *zap.Logger, component string) *ZapLogger {
	return &ZapLogger{sugar: base.Sugar().With("component", component)}
}

// NewDevelopment is a console logger at debug level, used by the CLI.
func NewDevelopment(component string) (*ZapLogger, error) {
	base, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(base, component), nil
}

// Nop discards everything.
func Nop() *ZapLogger {
	return NewZapLogger(zap.NewNop(), "")
}

func (z *ZapLogger) Debug(log ...any) {
	msg, kv := split(log)
	z.sugar.Debugw(msg, kv...)
}

func (z *ZapLogger) Info(log ...any) {
	msg, kv := split(log)
	z.sugar.Infow(msg, kv...)
}

func (z *ZapLogger) Error(log ...any) {
	msg, kv := split(log)
	z.sugar.Errorw(msg, kv...)
}

func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

func split(log []any) (string, []any) {
	if len(log) == 0 {
		return "", nil
	}
	if msg, ok := log[0].(string); ok {
		return msg, log[1:]
	}
	return fmt.Sprint(log[0]), log[1:]
}
