package module

import (
	"competition-jury-system/internal/module/jury"
	"competition-jury-system/internal/module/leaderboard"
	"competition-jury-system/internal/module/ping"
	"competition-jury-system/internal/module/submission"
	"competition-jury-system/internal/module/user"
	"competition-jury-system/internal/module/vote"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&leaderboard.ModuleLeaderboard{},
		&jury.ModuleJury{},
		&submission.ModuleSubmission{},
		&vote.ModuleVote{},
	})
}
