package logger

import (
	"context"
	"log/slog"
	"testing"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

var (
	logger  Logger
	sLogger *slog.Logger
)

type Logger interface {
	Debug(msg string, fields ...interface{})
	Debugf(msg string, args ...interface{})
	Info(msg string, fields ...interface{})
	Infof(msg string, args ...interface{})
	Warn(msg string, fields ...interface{})
	Warnf(msg string, args ...interface{})
	Error(msg string, fields ...interface{})
	Errorf(msg string, args ...interface{})
	Fatalf(msg string, args ...interface{})
}

type ZapLogger struct {
	Logger       *zap.Logger
	loggerConfig zap.Config
}

type optionFunc func(*ZapLogger)

type ctxKey string

const (
	flowKey    ctxKey = "flow"
	accountKey ctxKey = "account"
)

// InitLogger builds the process logger and the slog bridge on top of it.
// Calling it again is a no-op.
func InitLogger(opts ...optionFunc) error {
	if logger != nil {
		return nil
	}
	zapLogger, err := NewZapLogger(opts...)
	if err != nil {
		return err
	}
	logger = zapLogger
	sLogger = newSLoggerFromZap(zapLogger.Logger, zapLogger.loggerConfig.Level.Level())
	return nil
}

func NewZapLogger(opts ...optionFunc) (*ZapLogger, error) {
	loggerZap := &ZapLogger{loggerConfig: zap.NewProductionConfig()}
	for _, opt := range opts {
		opt(loggerZap)
	}
	var err error
	loggerZap.Logger, err = loggerZap.loggerConfig.Build()
	if err != nil {
		return nil, err
	}
	return loggerZap, nil
}

type LevelAdapter struct {
	ZapLevel zapcore.Level
}

func (l LevelAdapter) Level() slog.Level {
	switch l.ZapLevel {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.InfoLevel:
		return slog.LevelInfo
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newSLoggerFromZap(zapLogger *zap.Logger, level zapcore.Level) *slog.Logger {
	return slog.New(slogzap.Option{
		Logger:          zapLogger,
		Level:           LevelAdapter{ZapLevel: level},
		AttrFromContext: []func(ctx context.Context) []slog.Attr{attrsFromContext},
	}.NewZapHandler())
}

// WithFlow tags ctx so that context-aware log lines carry the flow name.
func WithFlow(ctx context.Context, flow string) context.Context {
	return context.WithValue(ctx, flowKey, flow)
}

// WithAccount tags ctx with the account a flow acts for.
func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if v, ok := ctx.Value(flowKey).(string); ok {
		attrs = append(attrs, slog.String(string(flowKey), v))
	}
	if v, ok := ctx.Value(accountKey).(string); ok {
		attrs = append(attrs, slog.String(string(accountKey), v))
	}
	return attrs
}

func slogger() *slog.Logger {
	if sLogger == nil {
		_ = InitLogger()
	}
	if sLogger == nil {
		return slog.Default()
	}
	return sLogger
}

func DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	slogger().DebugContext(ctx, msg, fields...)
}

func InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	slogger().InfoContext(ctx, msg, fields...)
}

func WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	slogger().WarnContext(ctx, msg, fields...)
}

func ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	slogger().ErrorContext(ctx, msg, fields...)
}

// UseForTest routes the package logger to t's output for the duration of the test.
func UseForTest(t *testing.T) {
	zl := zaptest.NewLogger(t)
	prevLogger, prevSLogger := logger, sLogger
	logger = &ZapLogger{Logger: zl}
	sLogger = newSLoggerFromZap(zl, zapcore.DebugLevel)
	t.Cleanup(func() {
		logger, sLogger = prevLogger, prevSLogger
	})
}

func WithLevel(level zapcore.Level) optionFunc {
	return func(zl *ZapLogger) {
		zl.loggerConfig.Level = zap.NewAtomicLevelAt(level)
	}
}

func WithEncodeTime(timeKey string, timeEncoder zapcore.TimeEncoder) optionFunc {
	return func(zl *ZapLogger) {
		zl.loggerConfig.EncoderConfig.TimeKey = timeKey
		zl.loggerConfig.EncoderConfig.EncodeTime = timeEncoder
	}
}

// WithDevelopment switches to the human-readable console encoder.
func WithDevelopment() optionFunc {
	return func(zl *ZapLogger) {
		level := zl.loggerConfig.Level
		zl.loggerConfig = zap.NewDevelopmentConfig()
		zl.loggerConfig.Level = level
	}
}

func GetLogger() Logger {
	if logger == nil {
		_ = InitLogger()
	}
	return logger
}

func Debug(msg string, fields ...interface{}) {
	GetLogger().Debug(msg, fields...)
}

func Debugf(msg string, fields ...interface{}) {
	GetLogger().Debugf(msg, fields...)
}

func Info(msg string, fields ...interface{}) {
	GetLogger().Info(msg, fields...)
}

func Infof(msg string, fields ...interface{}) {
	GetLogger().Infof(msg, fields...)
}

func Warn(msg string, fields ...interface{}) {
	GetLogger().Warn(msg, fields...)
}

func Warnf(msg string, fields ...interface{}) {
	GetLogger().Warnf(msg, fields...)
}

func Error(msg string, fields ...interface{}) {
	GetLogger().Error(msg, fields...)
}

func Errorf(msg string, fields ...interface{}) {
	GetLogger().Errorf(msg, fields...)
}

func Fatalf(msg string, fields ...interface{}) {
	GetLogger().Fatalf(msg, fields...)
}

func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.Logger.Sugar().Debugw(msg, fields...)
}

func (l *ZapLogger) Debugf(msg string, args ...interface{}) {
	l.Logger.Sugar().Debugf(msg, args...)
}

func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.Logger.Sugar().Infow(msg, fields...)
}

func (l *ZapLogger) Infof(msg string, args ...interface{}) {
	l.Logger.Sugar().Infof(msg, args...)
}

func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.Logger.Sugar().Warnw(msg, fields...)
}

func (l *ZapLogger) Warnf(msg string, args ...interface{}) {
	l.Logger.Sugar().Warnf(msg, args...)
}

func (l *ZapLogger) Error(msg string, fields ...interface{}) {
	l.Logger.Sugar().Errorw(msg, fields...)
}

func (l *ZapLogger) Errorf(msg string, fields ...interface{}) {
	l.Logger.Sugar().Errorf(msg, fields...)
}

func (l *ZapLogger) Fatalf(msg string, fields ...interface{}) {
	l.Logger.Sugar().Fatalf(msg, fields...)
}

// Zap exposes the underlying zap logger, e.g. for HTTP middleware.
func Zap() *zap.Logger {
	if zl, ok := GetLogger().(*ZapLogger); ok {
		return zl.Logger
	}
	return zap.NewNop()
}
