package sentry

import (
	"fmt"
	"time"

	"competition-jury-system/config"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 带错误码的错误，只有 5xx 才上报
type CodedError interface {
	error
	GetCode() int32
}

func Enabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// Init 未配置 DSN 时直接跳过
func Init() error {
	cfg := config.Get()
	if !Enabled() {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentrylib.Init(sentrylib.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "competition-jury-system@1.0.0",
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

func Middleware() gin.HandlerFunc {
	if !Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给后面的 Recovery 中间件
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务器错误，附带请求与用户信息
func CaptureException(c *gin.Context, err error) {
	if !Enabled() || !shouldReport(err) {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentrylib.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.FullPath())
		scope.SetTag("method", c.Request.Method)
		scope.SetTag("client_ip", c.ClientIP())
		if payload, exists := c.Get("payload"); exists {
			scope.SetUser(sentrylib.User{
				Data: map[string]string{"payload": fmt.Sprintf("%+v", payload)},
			})
		}
		hub.CaptureException(err)
	})
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		code := e.GetCode()
		for code >= 1000 {
			code /= 10
		}
		return code >= 500 && code < 600
	}
	return true
}

// Flush 退出前调用
func Flush(timeout time.Duration) {
	if Enabled() {
		sentrylib.Flush(timeout)
	}
}
