package middleware

import (
	"strings"

	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer token，并要求当前角色拥有全部给定能力；不传能力时只要求登录
func Auth(caps ...model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		role := model.Role(claims.RoleID)
		for _, capability := range caps {
			if !role.Can(capability) {
				response.Fail(c, response.ErrUnauthorized.WithTips("需要 "+string(capability)+" 权限"))
				c.Abort()
				return
			}
		}
		c.Set(jwt.PayloadKey, claims)
		c.Next()
	}
}
