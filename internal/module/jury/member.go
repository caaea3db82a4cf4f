package jury

import (
	"context"
	"errors"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/mailer"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createMemberReq struct {
	UserID        uint   `json:"user_id" binding:"required"`
	Title         string `json:"title" binding:"max=100"`
	CompetitionID *uint  `json:"competition_id"`
}

// juryRole 评委必须具备评分能力：普通用户升级为评委，其余缺少评分能力的角色拒绝任命
func juryRole(role model.Role) (model.Role, error) {
	switch {
	case role.Can(model.CapScore):
		return role, nil
	case role == model.RoleUser:
		return model.RoleJury, nil
	}
	return role, response.ErrInvalidRequest.WithTips("角色 " + role.String() + " 没有评分能力，请先调整角色再任命为评委")
}

// CreateMember 新建评委；已存在的评委会被重新启用并更新头衔和评审范围
func CreateMember(c *gin.Context) {
	admin, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	var req createMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctx := c.Request.Context()
	db := database.DB.WithContext(ctx)

	var user model.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	role, err := juryRole(model.Role(user.RoleID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	var competition model.Competition
	if req.CompetitionID != nil {
		if err := db.First(&competition, *req.CompetitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Fail(c, response.ErrNotFound.WithTips("比赛不存在"))
				return
			}
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}

	var member model.JuryMember
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", user.ID).First(&member).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = model.JuryMember{
				UserID:        user.ID,
				Title:         req.Title,
				Active:        true,
				AssignedBy:    admin.ID,
				CompetitionID: req.CompetitionID,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			member.Title = req.Title
			member.Active = true
			member.AssignedBy = admin.ID
			member.CompetitionID = req.CompetitionID
			err := tx.Model(&member).Updates(map[string]any{
				"title":          req.Title,
				"active":         true,
				"assigned_by":    admin.ID,
				"competition_id": req.CompetitionID,
			}).Error
			if err != nil {
				return err
			}
		}
		if role != model.Role(user.RoleID) {
			return tx.Model(&user).Update("role_id", int(role)).Error
		}
		return nil
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("该用户已是评委"))
			return
		}
		log.Error("创建评委失败", "error", err, "user_id", req.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if _, err := svc.RecomputeProgress(ctx, member.ID); err != nil {
		log.Warn("初始化评委进度失败", "error", err, "jury_member_id", member.ID)
	}
	sendInvitation(ctx, &user, &member, competition.Name)

	log.Info("管理员设置评委",
		"admin_id", admin.ID,
		"user_id", user.ID,
		"jury_member_id", member.ID,
		"competition_id", req.CompetitionID)
	response.Success(c, member)
}

// sendInvitation 邮件发送失败不影响评委创建
func sendInvitation(ctx context.Context, user *model.User, member *model.JuryMember, competitionName string) {
	if user.Email == "" {
		return
	}
	if competitionName == "" {
		competitionName = "全部比赛"
	}
	fields := map[string]string{
		"nick_name":   user.NickName,
		"title":       member.Title,
		"competition": competitionName,
	}
	if err := mail.Send(ctx, mailer.TemplateJuryInvitation, user.Email, fields); err != nil {
		log.Warn("发送评委邀请邮件失败", "error", err, "user_id", user.ID)
	}
}

// ListMembers 可按 competition_id、active 过滤
func ListMembers(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context()).Model(&model.JuryMember{})
	if id := tools.QueryUint(c, "competition_id"); id != nil {
		db = db.Where("competition_id = ?", *id)
	}
	switch c.Query("active") {
	case "true":
		db = db.Where("active = ?", true)
	case "false":
		db = db.Where("active = ?", false)
	}
	offset, limit := tools.GetPage(c)

	var total int64
	members := make([]model.JuryMember, 0)
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if err := db.Preload("User").Order("id ASC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		log.Error("数据库 查询评委列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": members})
}

// DeactivateMember 停用评委，已有评分保留
func DeactivateMember(c *gin.Context) {
	id, ok := tools.ParamUint(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评委ID错误"))
		return
	}
	result := database.DB.WithContext(c.Request.Context()).
		Model(&model.JuryMember{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		var count int64
		database.DB.WithContext(c.Request.Context()).Model(&model.JuryMember{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			response.Fail(c, response.ErrNotFound.WithTips("评委不存在"))
			return
		}
	}
	log.Info("停用评委", "jury_member_id", id)
	response.Success(c)
}

// DeleteMember 硬删除评委及其全部评分
func DeleteMember(c *gin.Context) {
	id, ok := tools.ParamUint(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评委ID错误"))
		return
	}
	if err := svc.DeleteMember(c.Request.Context(), id); err != nil {
		if !errors.Is(err, response.ErrNotFound) {
			log.Error("删除评委失败", "error", err, "jury_member_id", id)
		}
		response.Fail(c, err)
		return
	}
	log.Info("删除评委", "jury_member_id", id)
	response.Success(c)
}
