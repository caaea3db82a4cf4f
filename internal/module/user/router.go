package user

import (
	"competition-jury-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 用户相关端点以 /user 为前缀
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authed := userGroup.Group("", middleware.Auth())
	authed.PUT("/password", ChangePassword)
	authed.GET("/me", GetMe)
}
