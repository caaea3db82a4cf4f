package test

import (
	"testing"

	"competition-jury-system/config"

	"github.com/gin-gonic/gin"
)

const JWTSecret = "test-secret"

// Setup 使用 debug 模式的最小配置，测试结束后恢复
func Setup(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.Get()
	cfg := &config.Config{
		Mode: config.ModeDebug,
		JWT:  config.JWT{AccessSecret: JWTSecret, AccessExpire: 3600},
		Log:  config.Log{Level: "error"},
	}
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })
	return cfg
}
