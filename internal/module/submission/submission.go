package submission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/pictureBed"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/internal/module/jury"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	thumbnailURLExpire    = time.Hour
	thumbnailUploadExpire = 15 * time.Minute
)

type submissionView struct {
	model.Registration
	Stats *model.SubmissionVotingStats `json:"stats,omitempty"`
}

func resolveThumbnail(ctx context.Context, reg *model.Registration) {
	url, err := pictureBed.Default().PresignDownload(ctx, reg.Thumbnail, thumbnailURLExpire)
	if err != nil {
		log.Warn("生成缩略图地址失败", "error", err, "registration_number", reg.RegistrationNumber)
		return
	}
	reg.Thumbnail = url
}

// NewRegistrationNumber 比赛 ID + 时间戳的 36 进制
func NewRegistrationNumber(competitionID uint, now time.Time) string {
	return fmt.Sprintf("C%d-%s", competitionID, strings.ToUpper(strconv.FormatInt(now.UnixNano(), 36)))
}

// List 已发布作品，可按 competition_id、category 过滤
func List(c *gin.Context) {
	ctx := c.Request.Context()
	db := database.DB.WithContext(ctx).Model(&model.Registration{}).Where("published = ?", true)
	if id := tools.QueryUint(c, "competition_id"); id != nil {
		db = db.Where("competition_id = ?", *id)
	}
	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	offset, limit := tools.GetPage(c)
	regs := make([]model.Registration, 0)
	if err := db.Preload("User").Order("published_at DESC, id DESC").
		Offset(offset).Limit(limit).Find(&regs).Error; err != nil {
		log.Error("数据库 查询作品列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	for i := range regs {
		resolveThumbnail(ctx, &regs[i])
	}
	response.Success(c, gin.H{"total": total, "list": regs})
}

func findByNumber(c *gin.Context, publishedOnly bool) (*model.Registration, bool) {
	db := database.DB.WithContext(c.Request.Context()).
		Where("registration_number = ?", c.Param("registration_number"))
	if publishedOnly {
		db = db.Where("published = ?", true)
	}
	var reg model.Registration
	err := db.Preload("User").First(&reg).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("作品不存在"))
		return nil, false
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &reg, true
}

func Get(c *gin.Context) {
	reg, ok := findByNumber(c, true)
	if !ok {
		return
	}
	view := submissionView{Registration: *reg}
	var stats []model.SubmissionVotingStats
	if err := database.DB.WithContext(c.Request.Context()).
		Where("registration_id = ?", reg.ID).Limit(1).Find(&stats).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if len(stats) > 0 {
		view.Stats = &stats[0]
	}
	resolveThumbnail(c.Request.Context(), &view.Registration)
	response.Success(c, view)
}

type createReq struct {
	CompetitionID      uint   `json:"competition_id" binding:"required"`
	UserID             uint   `json:"user_id" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"max=32"`
	Category           string `json:"category" binding:"max=50"`
	Title              string `json:"title" binding:"required,max=100"`
}

func Create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	var competition model.Competition
	if err := db.First(&competition, req.CompetitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("比赛不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !competition.AllowsCategory(req.Category) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("类别不在比赛范围内"))
		return
	}
	var userCount int64
	if err := db.Model(&model.User{}).Where("id = ?", req.UserID).Count(&userCount).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if userCount == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	}

	number := req.RegistrationNumber
	if number == "" {
		number = NewRegistrationNumber(competition.ID, time.Now())
	}
	reg := model.Registration{
		RegistrationNumber: number,
		CompetitionID:      competition.ID,
		UserID:             req.UserID,
		Category:           req.Category,
		Title:              req.Title,
	}
	if err := db.Create(&reg).Error; err != nil {
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("报名编号已存在"))
			return
		}
		log.Error("创建作品失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("创建作品", "registration_number", reg.RegistrationNumber, "competition_id", reg.CompetitionID)
	response.Success(c, reg)
}

// setPublished 已发布作品数变化后重算评委进度并清除排行榜缓存
func setPublished(c *gin.Context, published bool) {
	reg, ok := findByNumber(c, false)
	if !ok {
		return
	}
	if reg.Published == published {
		response.Success(c, reg)
		return
	}
	ctx := c.Request.Context()

	updates := map[string]any{"published": published}
	if published {
		now := time.Now()
		updates["published_at"] = &now
		reg.PublishedAt = &now
	} else {
		updates["published_at"] = nil
		reg.PublishedAt = nil
	}
	if err := database.DB.WithContext(ctx).Model(reg).Updates(updates).Error; err != nil {
		log.Error("更新作品发布状态失败", "error", err, "registration_number", reg.RegistrationNumber)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	reg.Published = published

	if err := jury.Default().RecomputeCompetition(ctx, reg.CompetitionID); err != nil {
		log.Error("重算评委进度失败", "error", err, "competition_id", reg.CompetitionID)
	}
	log.Info("更新作品发布状态", "registration_number", reg.RegistrationNumber, "published", published)
	response.Success(c, reg)
}

func Publish(c *gin.Context) {
	setPublished(c, true)
}

func Unpublish(c *gin.Context) {
	setPublished(c, false)
}

type thumbnailReq struct {
	Filename string `json:"filename" binding:"required"`
}

// Thumbnail 作者或管理员获取直传 URL，对象 key 立即写回作品
func Thumbnail(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	var req thumbnailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	reg, ok := findByNumber(c, false)
	if !ok {
		return
	}
	if reg.UserID != claims.ID && !model.Role(claims.RoleID).Can(model.CapManageSubmission) {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	bed := pictureBed.Default()
	if !bed.Enabled() {
		response.Fail(c, response.ErrServerInternal.WithTips("对象存储未配置"))
		return
	}

	ctx := c.Request.Context()
	upload, err := bed.PresignThumbnailUpload(ctx, reg.RegistrationNumber, req.Filename, thumbnailUploadExpire)
	if err != nil {
		log.Warn("生成缩略图上传地址失败", "error", err, "registration_number", reg.RegistrationNumber)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err).WithTips(err.Error()))
		return
	}
	if err := database.DB.WithContext(ctx).Model(reg).Update("thumbnail", upload.FileKey).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, upload)
}
