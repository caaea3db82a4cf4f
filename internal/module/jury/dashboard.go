package jury

import (
	"fmt"

	"competition-jury-system/internal/global/metrics"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func DashboardProgress(c *gin.Context) {
	rows, err := selectProgress(c.Request.Context(), tools.QueryUint(c, "competition_id"))
	if err != nil {
		log.Error("数据库 查询评委进度失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, rows)
}

func requireCompetition(c *gin.Context) (uint, bool) {
	id := tools.QueryUint(c, "competition_id")
	if id == nil || *id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少 competition_id"))
		return 0, false
	}
	return *id, true
}

func DashboardStats(c *gin.Context) {
	competitionID, ok := requireCompetition(c)
	if !ok {
		return
	}
	offset, limit := tools.GetPage(c)
	rows, total, err := selectStats(c.Request.Context(), competitionID, offset, limit)
	if err != nil {
		log.Error("数据库 查询作品汇总失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": rows})
}

// Recompute 从评分原始数据重建所有缓存
func Recompute(c *gin.Context) {
	timer := prometheus.NewTimer(metrics.RecomputeDuration)
	res, err := svc.RecomputeAll(c.Request.Context())
	timer.ObserveDuration()
	if err != nil {
		log.Error("重算评审汇总失败", "error", err)
		response.Fail(c, err)
		return
	}
	log.Info("重算评审汇总完成", "members", res.Members, "submissions", res.Submissions)
	response.Success(c, res)
}

func ExportScores(c *gin.Context) {
	competitionID, ok := requireCompetition(c)
	if !ok {
		return
	}
	rows, err := selectExportRows(c.Request.Context(), competitionID)
	if err != nil {
		log.Error("数据库 查询评分导出数据失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	filename := fmt.Sprintf("jury_scores_%d.xlsx", competitionID)
	if err := tools.SendExcel(c, filename, "评分明细", rows); err != nil {
		log.Error("导出评分失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
	}
}
