package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"competition-jury-system/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// fanout 把同一条记录分发给多个 handler（本地输出 + Sentry）
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Get 获取全局 Logger，首次调用时按配置构建
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		release := cfg.Mode == config.ModeRelease
		opts := &slog.HandlerOptions{
			AddSource: release,
			Level:     parseLevel(cfg.Log.Level),
		}

		var handler slog.Handler
		if release && cfg.Log.FilePath != "" {
			// release 模式写文件并轮转
			var w io.Writer = &lumberjack.Logger{
				Filename:   cfg.Log.FilePath,
				MaxSize:    cfg.Log.MaxSize,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAge,
				Compress:   cfg.Log.Compress,
			}
			handler = slog.NewJSONHandler(w, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		if cfg.Sentry.Dsn != "" {
			// Error 作为 Sentry Event，Warn 及以上作为 Sentry Log
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
				AddSource:  release,
			}.NewSentryHandler(context.Background())
			handler = fanout{handler, sentryHandler}
		}

		instance = slog.New(handler).With(
			"app_name", "competition-jury-system",
			"env", string(cfg.Mode),
		)
	})
	return instance
}

// New 创建带 module 字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
