package jury

import (
	"errors"
	"strconv"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/metrics"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// scoreRequest 评分项用指针区分 0 分与缺失
type scoreRequest struct {
	RegistrationNumber           string   `json:"registration_number" binding:"required"`
	ConceptScore                 *float64 `json:"concept_score" binding:"required"`
	RelevanceScore               *float64 `json:"relevance_score" binding:"required"`
	CompositionScore             *float64 `json:"composition_score" binding:"required"`
	BalanceScore                 *float64 `json:"balance_score" binding:"required"`
	ColourScore                  *float64 `json:"colour_score" binding:"required"`
	DesignRelativityScore        *float64 `json:"design_relativity_score" binding:"required"`
	AestheticAppealScore         *float64 `json:"aesthetic_appeal_score" binding:"required"`
	UnconventionalMaterialsScore *float64 `json:"unconventional_materials_score" binding:"required"`
	OverallMaterialScore         *float64 `json:"overall_material_score" binding:"required"`
	Comments                     string   `json:"comments" binding:"max=5000"`
}

func (r *scoreRequest) input() ScoreInput {
	return ScoreInput{
		RegistrationNumber: r.RegistrationNumber,
		Criteria: model.Criteria{
			ConceptScore:                 *r.ConceptScore,
			RelevanceScore:               *r.RelevanceScore,
			CompositionScore:             *r.CompositionScore,
			BalanceScore:                 *r.BalanceScore,
			ColourScore:                  *r.ColourScore,
			DesignRelativityScore:        *r.DesignRelativityScore,
			AestheticAppealScore:         *r.AestheticAppealScore,
			UnconventionalMaterialsScore: *r.UnconventionalMaterialsScore,
			OverallMaterialScore:         *r.OverallMaterialScore,
		},
		Comments: r.Comments,
	}
}

// currentMember 取当前登录用户对应的有效评委，失败时已写入响应
func currentMember(c *gin.Context) (*model.JuryMember, bool) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return nil, false
	}
	member, err := svc.ActiveMember(c.Request.Context(), claims.ID)
	if err != nil {
		log.Warn("非有效评委访问评审接口", "user_id", claims.ID, "error", err)
		response.Fail(c, err)
		return nil, false
	}
	return member, true
}

func ListCriteria(c *gin.Context) {
	response.Success(c, gin.H{
		"max_total": MaxTotalScore,
		"criteria":  Criteria(),
	})
}

// SubmitScore 提交或覆盖评分
func SubmitScore(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	score, err := svc.SubmitScore(c.Request.Context(), member.ID, req.input())
	if err != nil {
		switch {
		case errors.Is(err, response.ErrInvalidScore):
			metrics.ScoreSubmissions.WithLabelValues(metrics.ScoreRejected).Inc()
			log.Warn("评分被拒绝", "jury_member_id", member.ID, "registration_number", req.RegistrationNumber, "error", err)
		case errors.Is(err, response.ErrNotFound):
			metrics.ScoreSubmissions.WithLabelValues(metrics.ScoreNotFound).Inc()
			log.Warn("评分被拒绝", "jury_member_id", member.ID, "registration_number", req.RegistrationNumber, "error", err)
		default:
			metrics.ScoreSubmissions.WithLabelValues(metrics.ScoreFailed).Inc()
			log.Error("保存评分失败", "jury_member_id", member.ID, "registration_number", req.RegistrationNumber, "error", err)
		}
		response.Fail(c, err)
		return
	}

	metrics.ScoreSubmissions.WithLabelValues(metrics.ScoreAccepted).Inc()
	log.Info("评委提交评分",
		"jury_member_id", member.ID,
		"registration_number", req.RegistrationNumber,
		"total_score", score.TotalScore)
	response.Success(c, score)
}

func GetScore(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	score, found, err := selectOwnScore(c.Request.Context(), member.ID, c.Param("registration_number"))
	if err != nil {
		log.Error("数据库 查询评分失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !found {
		response.Fail(c, response.ErrNotFound.WithTips("尚未对该作品评分"))
		return
	}
	response.Success(c, score)
}

func ListScores(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	offset, limit := tools.GetPage(c)
	rows, total, err := selectOwnScores(c.Request.Context(), member.ID, offset, limit)
	if err != nil {
		log.Error("数据库 查询评分列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": rows})
}

// GetProgress 进度行不存在时当场重算
func GetProgress(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var progress model.JuryScoringProgress
	err := database.DB.WithContext(c.Request.Context()).
		Where("jury_member_id = ?", member.ID).
		First(&progress).Error
	switch {
	case err == nil:
		response.Success(c, progress)
	case errors.Is(err, gorm.ErrRecordNotFound):
		p, err := svc.RecomputeProgress(c.Request.Context(), member.ID)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.Success(c, p)
	default:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
	}
}

// ListSubmissions 可评审的作品，scored=true/false 过滤已评/未评
func ListSubmissions(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var scored *bool
	if raw := c.Query("scored"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithTips("scored 参数错误"))
			return
		}
		scored = &v
	}
	offset, limit := tools.GetPage(c)
	rows, total, err := selectAssigned(c.Request.Context(), member, scored, offset, limit)
	if err != nil {
		log.Error("数据库 查询待评作品失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": rows})
}
