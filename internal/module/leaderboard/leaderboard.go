package leaderboard

import (
	"context"
	"fmt"
	"time"

	"competition-jury-system/internal/global/pictureBed"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
)

const thumbnailURLExpire = time.Hour

type boardQuery struct {
	competitionID uint
	channel       Channel
	category      string
}

func parseQuery(c *gin.Context) (*boardQuery, bool) {
	id, ok := tools.ParamUint(c, "competition_id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("比赛ID错误"))
		return nil, false
	}
	channel, err := ParseChannel(c.Query("channel"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err).WithTips(err.Error()))
		return nil, false
	}
	exists, err := competitionExists(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	if !exists {
		response.Fail(c, response.ErrNotFound.WithTips("比赛不存在"))
		return nil, false
	}
	return &boardQuery{competitionID: id, channel: channel, category: c.Query("category")}, true
}

// resolveThumbnails 缓存里只存 key，返回前换成临时地址
func resolveThumbnails(ctx context.Context, rows []Row) []Row {
	bed := pictureBed.Default()
	out := make([]Row, len(rows))
	for i, row := range rows {
		if url, err := bed.PresignDownload(ctx, row.Thumbnail, thumbnailURLExpire); err == nil {
			row.Thumbnail = url
		} else {
			log.Warn("生成缩略图地址失败", "error", err, "registration_number", row.RegistrationNumber)
		}
		out[i] = row
	}
	return out
}

// List 排行榜，channel=vote 按公众投票数，channel=jury 按评委平均分
func List(c *gin.Context) {
	q, ok := parseQuery(c)
	if !ok {
		return
	}
	rows, err := load(c.Request.Context(), q.competitionID, q.channel, q.category)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	offset, limit := tools.GetPage(c)
	response.Success(c, gin.H{
		"channel": q.channel,
		"total":   len(rows),
		"list":    resolveThumbnails(c.Request.Context(), page(rows, offset, limit)),
	})
}

func Export(c *gin.Context) {
	q, ok := parseQuery(c)
	if !ok {
		return
	}
	cands, err := selectCandidates(c.Request.Context(), q.competitionID, q.category)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	rows := rank(cands, q.channel)
	filename := fmt.Sprintf("leaderboard_%d_%s.xlsx", q.competitionID, q.channel)
	if err := tools.SendExcel(c, filename, "排行榜", rows); err != nil {
		log.Error("导出排行榜失败", "error", err, "competition_id", q.competitionID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
	}
}
