package user

import (
	"errors"
	"strings"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loginReq 登录请求
type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户名密码登录，返回 JWT 与角色能力
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	role := model.Role(user.RoleID)
	log.Info("用户登录成功", "user_id", user.ID, "role", role.String())
	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			ID:       user.ID,
			Username: user.Username,
			RoleID:   user.RoleID,
		}),
		"user_id":      user.ID,
		"role_id":      user.RoleID,
		"role":         role.String(),
		"capabilities": role.Capabilities(),
	})
}

// validatePasswordStrength 至少 8 位，包含字母、数字和特殊字符
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码长度必须至少8字符")
	}

	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z':
			hasLetter = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*-_", char):
			hasSpecial = true
		}
	}

	if !hasLetter {
		return errors.New("密码必须包含至少一个字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含至少一个数字")
	}
	if !hasSpecial {
		return errors.New("密码必须包含至少一个特殊字符（!@#$%^&*-_）")
	}
	return nil
}

type registerReq struct {
	loginReq
	Email    string `json:"email" binding:"omitempty,email"`
	NickName string `json:"nick_name" binding:"required,max=50"`
}

// Register 新用户默认为普通用户，只有投票能力
func Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if len(req.Username) > 50 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("用户名过长"))
		return
	}
	if err := validatePasswordStrength(req.Password); err != nil {
		log.Warn("密码强度验证失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err).WithTips(err.Error()))
		return
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: tools.PasswordEncrypt(req.Password),
		NickName: req.NickName,
		RoleID:   int(model.RoleUser),
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			log.Warn("用户已存在", "username", req.Username)
			response.Fail(c, response.ErrAlreadyExists)
			return
		}
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "user_id", user.ID, "username", user.Username)
	response.Success(c, user)
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func ChangePassword(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err).WithTips(err.Error()))
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var user model.User
	if err := db.First(&user, claims.ID).Error; err != nil {
		log.Error("查询用户失败", "error", err, "user_id", claims.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "user_id", claims.ID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}
	if err := db.Model(&user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "user_id", claims.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户修改密码成功", "user_id", user.ID)
	response.Success(c)
}

func GetMe(c *gin.Context) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	var user model.User
	err := database.DB.WithContext(c.Request.Context()).First(&user, claims.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("查询用户失败", "error", err, "user_id", claims.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	role := model.Role(user.RoleID)
	response.Success(c, gin.H{
		"user":         user,
		"role":         role.String(),
		"capabilities": role.Capabilities(),
	})
}
