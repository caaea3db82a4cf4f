package submission

import (
	"competition-jury-system/internal/global/middleware"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleSubmission) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/submission")
	g.GET("/list", List)
	g.GET("/:registration_number", Get)
	g.POST("/:registration_number/thumbnail", middleware.Auth(), Thumbnail)

	admin := g.Group("", middleware.Auth(model.CapManageSubmission))
	{
		admin.POST("/create", Create)
		admin.PUT("/:registration_number/publish", Publish)
		admin.PUT("/:registration_number/unpublish", Unpublish)
	}

	competition := r.Group("/competition")
	competition.GET("/list", ListCompetitions)
	competition.POST("/create", middleware.Auth(model.CapManageSubmission), CreateCompetition)
}
