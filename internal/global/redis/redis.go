package redis

import (
	"context"
	"encoding/json"
	"time"

	"competition-jury-system/config"
	"competition-jury-system/internal/global/logger"
	"competition-jury-system/internal/global/sentry/tracing"

	goredis "github.com/redis/go-redis/v9"
)

// Client 为 nil 表示 Redis 不可用，调用方需降级
var Client *goredis.Client

// Init 连接失败只记录告警，不阻断启动
func Init() {
	log := logger.New("Redis")
	c := config.Get().Redis
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     c.Host + ":" + c.Port,
		Password: c.Password,
		DB:       c.DB,
	})
	if tracing.Enabled() {
		rdb.AddHook(tracing.NewRedisHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis 连接失败，排行榜缓存将不可用", "error", err, "addr", c.Host+":"+c.Port)
		_ = rdb.Close()
		return
	}
	log.Info("Redis 连接成功", "addr", c.Host+":"+c.Port)
	Client = rdb
}

// GetJSON 命中返回 true；未命中、Redis 不可用或反序列化失败返回 false
func GetJSON(ctx context.Context, key string, v any) bool {
	if Client == nil {
		return false
	}
	raw, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if Client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Client.Set(ctx, key, raw, ttl).Err()
}

// DeleteByPattern 用 SCAN 遍历删除，避免 KEYS 阻塞
func DeleteByPattern(ctx context.Context, pattern string) error {
	if Client == nil {
		return nil
	}
	iter := Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}

func Close() {
	if Client != nil {
		_ = Client.Close()
	}
}
