package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jury"

// 评分提交结果
const (
	ScoreAccepted = "accepted"
	ScoreRejected = "rejected"
	ScoreNotFound = "not_found"
	ScoreFailed   = "failed"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ScoreSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_submissions_total",
			Help:      "评委评分提交次数",
		},
		[]string{"result"},
	)

	Votes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "public_votes_total",
			Help:      "大众投票与撤票次数",
		},
		[]string{"action"},
	)

	LeaderboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_cache_total",
			Help:      "排行榜缓存命中情况",
		},
		[]string{"channel", "result"},
	)

	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_all_duration_seconds",
			Help:      "全量重算进度与统计的耗时",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// Handler 暴露默认注册表
func Handler() http.Handler {
	return promhttp.Handler()
}
