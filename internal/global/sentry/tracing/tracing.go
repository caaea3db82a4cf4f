// Package tracing 为 GORM、Redis 与 Resty 挂载 Sentry 性能追踪
package tracing

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"competition-jury-system/config"

	sentrylib "github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Enabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// startChild 没有父 span 时返回 nil
func startChild(ctx context.Context, op, desc string) *sentrylib.Span {
	if ctx == nil {
		return nil
	}
	parent := sentrylib.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(op)
	span.Description = desc
	return span
}

// finish 低于阈值的 span 不采样
func finish(span *sentrylib.Span, start time.Time, threshold time.Duration, err error) {
	if span == nil {
		return
	}
	if threshold > 0 && time.Since(start) < threshold {
		span.Sampled = sentrylib.SampledFalse
	}
	if err != nil {
		span.Status = sentrylib.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentrylib.SpanStatusOK
	}
	span.Finish()
}

// ── GORM ──

const (
	gormSpanKey  = "sentry:span"
	gormStartKey = "sentry:start"
)

type GormPlugin struct {
	threshold time.Duration
}

func NewGormPlugin() *GormPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormPlugin{threshold: time.Duration(ms) * time.Millisecond}
}

func (p *GormPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("sentry:before_create", p.before("db.sql.create")),
		cb.Query().Before("gorm:query").Register("sentry:before_query", p.before("db.sql.query")),
		cb.Update().Before("gorm:update").Register("sentry:before_update", p.before("db.sql.update")),
		cb.Delete().Before("gorm:delete").Register("sentry:before_delete", p.before("db.sql.delete")),
		cb.Row().Before("gorm:row").Register("sentry:before_row", p.before("db.sql.row")),
		cb.Raw().Before("gorm:raw").Register("sentry:before_raw", p.before("db.sql.raw")),

		cb.Create().After("gorm:create").Register("sentry:after_create", p.after),
		cb.Query().After("gorm:query").Register("sentry:after_query", p.after),
		cb.Update().After("gorm:update").Register("sentry:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("sentry:after_delete", p.after),
		cb.Row().After("gorm:row").Register("sentry:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("sentry:after_raw", p.after),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *GormPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		span := startChild(db.Statement.Context, op, table)
		if span == nil {
			return
		}
		span.SetData("db.system", "mysql")
		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, _ := spanVal.(*sentrylib.Span)
	if span != nil {
		span.SetData("db.rows_affected", db.RowsAffected)
	}
	finish(span, startVal.(time.Time), p.threshold, db.Error)
}

// ── Redis ──

type RedisHook struct {
	threshold time.Duration
}

func NewRedisHook() *RedisHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisHook{threshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		span := startChild(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		if span != nil {
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}
		err := next(ctx, cmd)
		if err == redis.Nil {
			finish(span, start, h.threshold, nil)
		} else {
			finish(span, start, h.threshold, err)
		}
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		span := startChild(ctx, "db.redis.pipeline", pipelineDescription(cmds))
		if span != nil {
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}
		err := next(ctx, cmds)
		finish(span, start, h.threshold, err)
		return err
	}
}

func pipelineDescription(cmds []redis.Cmder) string {
	const maxShow = 3
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i == maxShow {
			names = append(names, "...")
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	return "PIPELINE: " + strings.Join(names, ", ")
}

// ── Resty ──

// SetupResty 为出站 HTTP 请求创建 span 并透传 sentry-trace
func SetupResty(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		span := startChild(req.Context(), "http.client", req.Method+" "+sanitizeURL(req.URL))
		if span == nil {
			return nil
		}
		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentrylib.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		span.Status = sentrylib.HTTPtoSpanStatus(resp.StatusCode())
		span.Finish()
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		if span := sentrylib.SpanFromContext(req.Context()); span != nil {
			span.Status = sentrylib.SpanStatusInternalError
			span.SetData("http.error", err.Error())
			span.Finish()
		}
	})
}

// sanitizeURL 只保留 scheme://host/path
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Scheme + "://" + u.Host + u.Path
}
