package vote

import (
	"errors"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/metrics"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// findPublished 失败时已写入响应
func findPublished(c *gin.Context) (*model.Registration, bool) {
	var reg model.Registration
	err := database.DB.WithContext(c.Request.Context()).
		Where("registration_number = ? AND published = ?", c.Param("registration_number"), true).
		First(&reg).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("作品不存在或未发布"))
		return nil, false
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &reg, true
}

type voteResult struct {
	RegistrationNumber string `json:"registration_number"`
	PublicVoteCount    int64  `json:"public_vote_count"`
	Voted              bool   `json:"voted"`
}

func Cast(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	reg, ok := findPublished(c)
	if !ok {
		return
	}

	count, err := svc.Cast(c.Request.Context(), claims.ID, reg)
	if err != nil {
		if errors.Is(err, response.ErrDatabase) {
			log.Error("投票失败", "error", err, "user_id", claims.ID, "registration_number", reg.RegistrationNumber)
		}
		response.Fail(c, err)
		return
	}
	metrics.Votes.WithLabelValues("cast").Inc()

	log.Info("用户投票", "user_id", claims.ID, "registration_number", reg.RegistrationNumber, "count", count)
	response.Success(c, voteResult{RegistrationNumber: reg.RegistrationNumber, PublicVoteCount: count, Voted: true})
}

func Retract(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	reg, ok := findPublished(c)
	if !ok {
		return
	}

	count, err := svc.Retract(c.Request.Context(), claims.ID, reg)
	if err != nil {
		if errors.Is(err, response.ErrDatabase) {
			log.Error("取消投票失败", "error", err, "user_id", claims.ID, "registration_number", reg.RegistrationNumber)
		}
		response.Fail(c, err)
		return
	}
	metrics.Votes.WithLabelValues("retract").Inc()

	log.Info("用户取消投票", "user_id", claims.ID, "registration_number", reg.RegistrationNumber, "count", count)
	response.Success(c, voteResult{RegistrationNumber: reg.RegistrationNumber, PublicVoteCount: count})
}

func Get(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	reg, ok := findPublished(c)
	if !ok {
		return
	}

	count, voted, err := svc.Status(c.Request.Context(), claims.ID, reg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, voteResult{RegistrationNumber: reg.RegistrationNumber, PublicVoteCount: count, Voted: voted})
}
