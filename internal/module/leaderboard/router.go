package leaderboard

import (
	"competition-jury-system/internal/global/middleware"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleLeaderboard) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/leaderboard")
	g.GET("/:competition_id", List)
	g.GET("/:competition_id/export", middleware.Auth(model.CapManageSubmission), Export)
}
