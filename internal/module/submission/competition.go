package submission

import (
	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
)

type createCompetitionReq struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=255"`
	Categories  []string `json:"categories"`
	StartDate   int64    `json:"start_date"`
	EndDate     int64    `json:"end_date"`
}

func CreateCompetition(c *gin.Context) {
	var req createCompetitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.EndDate != 0 && req.EndDate < req.StartDate {
		response.Fail(c, response.ErrInvalidRequest.WithTips("结束时间早于开始时间"))
		return
	}
	competition := model.Competition{
		Name:        req.Name,
		Description: req.Description,
		Categories:  req.Categories,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&competition).Error; err != nil {
		log.Error("创建比赛失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("创建比赛", "competition_id", competition.ID, "name", competition.Name)
	response.Success(c, competition)
}

func ListCompetitions(c *gin.Context) {
	offset, limit := tools.GetPage(c)
	var total int64
	competitions := make([]model.Competition, 0)
	db := database.DB.WithContext(c.Request.Context()).Model(&model.Competition{})
	if err := db.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if err := database.DB.WithContext(c.Request.Context()).
		Order("id DESC").Offset(offset).Limit(limit).
		Find(&competitions).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": competitions})
}
