package jury

import (
	"competition-jury-system/internal/global/middleware"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleJury) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/jury")
	g.GET("/criteria", ListCriteria)

	judge := g.Group("", middleware.Auth(model.CapScore))
	{
		judge.POST("/score", SubmitScore)
		judge.GET("/score/:registration_number", GetScore)
		judge.GET("/scores", ListScores)
		judge.GET("/progress", GetProgress)
		judge.GET("/submissions", ListSubmissions)
	}

	member := g.Group("/member", middleware.Auth(model.CapManageJury))
	{
		member.POST("", CreateMember)
		member.GET("/list", ListMembers)
		member.PUT("/:id/deactivate", DeactivateMember)
		member.DELETE("/:id", DeleteMember)
	}

	dashboard := g.Group("/dashboard", middleware.Auth(model.CapViewDashboard))
	{
		dashboard.GET("/progress", DashboardProgress)
		dashboard.GET("/stats", DashboardStats)
		dashboard.GET("/export", ExportScores)
		dashboard.POST("/recompute", middleware.Auth(model.CapManageJury), Recompute)
	}
}
