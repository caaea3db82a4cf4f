package leaderboard

import (
	"competition-jury-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleLeaderboard struct{}

func (*ModuleLeaderboard) GetName() string {
	return "Leaderboard"
}

func (*ModuleLeaderboard) Init() {
	log = logger.New("Leaderboard")
}
