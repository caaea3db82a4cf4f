package vote

import (
	"competition-jury-system/internal/global/middleware"
	"competition-jury-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleVote) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/vote", middleware.Auth(model.CapVote))
	g.GET("/:registration_number", Get)
	g.POST("/:registration_number", Cast)
	g.DELETE("/:registration_number", Retract)
}
