package ping

import (
	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/redis"
	"competition-jury-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
}

// Ping 存活检查，顺带报告 MySQL 和 Redis 状态
func Ping(c *gin.Context) {
	result := map[string]any{
		"message": "pong",
		"version": version,
		"mysql":   "down",
		"redis":   "disabled",
	}
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil && sqlDB.PingContext(c.Request.Context()) == nil {
			result["mysql"] = "up"
		} else {
			log.Warn("MySQL 不可用")
		}
	}
	if redis.Client != nil {
		result["redis"] = "down"
		if redis.Client.Ping(c.Request.Context()).Err() == nil {
			result["redis"] = "up"
		}
	}
	response.Success(c, result)
}
