package leaderboard

import (
	"context"
	"fmt"
	"time"

	"competition-jury-system/config"
	"competition-jury-system/internal/global/metrics"
	"competition-jury-system/internal/global/redis"
)

// fetchCandidates 缓存未命中时的数据来源
var fetchCandidates = selectCandidates

func cacheKey(competitionID uint, channel Channel, category string) string {
	return fmt.Sprintf("leaderboard:%d:%s:%s", competitionID, channel, category)
}

func cacheTTL() time.Duration {
	if ttl := config.Get().Leaderboard.CacheTTL; ttl > 0 {
		return ttl
	}
	return time.Minute
}

// load 优先读缓存，未命中时查库排序并回写
func load(ctx context.Context, competitionID uint, channel Channel, category string) ([]Row, error) {
	key := cacheKey(competitionID, channel, category)
	var rows []Row
	if redis.GetJSON(ctx, key, &rows) {
		metrics.LeaderboardCache.WithLabelValues(string(channel), "hit").Inc()
		return rows, nil
	}
	metrics.LeaderboardCache.WithLabelValues(string(channel), "miss").Inc()

	cands, err := fetchCandidates(ctx, competitionID, category)
	if err != nil {
		return nil, err
	}
	rows = rank(cands, channel)
	if err := redis.SetJSON(ctx, key, rows, cacheTTL()); err != nil {
		log.Warn("排行榜写入缓存失败", "error", err, "key", key)
	}
	return rows, nil
}

// Invalidate 评分或投票变化后清除该比赛的所有排行榜缓存
func Invalidate(ctx context.Context, competitionID uint) {
	pattern := fmt.Sprintf("leaderboard:%d:*", competitionID)
	if err := redis.DeleteByPattern(ctx, pattern); err != nil && log != nil {
		log.Warn("清除排行榜缓存失败", "error", err, "pattern", pattern)
	}
}
