package vote

import (
	"log/slog"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/logger"
	"competition-jury-system/internal/module/leaderboard"
)

var (
	log *slog.Logger
	svc *Service
)

type ModuleVote struct{}

func (*ModuleVote) GetName() string {
	return "Vote"
}

func (*ModuleVote) Init() {
	log = logger.New("Vote")
	svc = NewService(NewGormStore(database.DB), leaderboard.Invalidate)
}
