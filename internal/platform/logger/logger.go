package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
)

// Logger is a key/value logger over zap. Every field passes through the
// redactor before it reaches a sink.
type Logger struct {
	s   *zap.SugaredLogger
	red *redactor
}

// New builds a logger for mode: "production" (or "prod") logs JSON at info,
// anything else logs console output at debug. LOG_LEVEL overrides the level
// and LOG_PATH tees a rotating JSON file.
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	def := zapcore.DebugLevel
	if m := strings.ToLower(strings.TrimSpace(mode)); m == "prod" || m == "production" {
		cfg = zap.NewProductionConfig()
		def = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(def))

	var opts []zap.Option
	if file := envutil.String("LOG_PATH", ""); file != "" {
		sink := fileCore(file, cfg.Level)
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, sink)
		}))
	}
	z, err := cfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	return &Logger{s: z.Sugar(), red: redactorFromEnv()}, nil
}

func fileCore(file string, lvl zapcore.LevelEnabler) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}),
		lvl,
	)
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar(), red: &redactor{}}
}

// levelFromEnv parses LOG_LEVEL with zap's own names and keeps def when the
// variable is unset or unparseable.
func levelFromEnv(def zapcore.Level) zapcore.Level {
	raw := envutil.String("LOG_LEVEL", "")
	if raw == "" {
		return def
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return def
	}
	return lvl
}

func (l *Logger) Sync() { _ = l.s.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, l.red.fields(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{}) { l.s.Infow(msg, l.red.fields(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{}) { l.s.Warnw(msg, l.red.fields(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, l.red.fields(kv)...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.s.Fatalw(msg, l.red.fields(kv)...) }

// With returns a child logger carrying kv on every entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{s: l.s.With(l.red.fields(kv)...), red: l.red}
}
