package jury

import (
	"log/slog"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/logger"
	"competition-jury-system/internal/global/mailer"
	"competition-jury-system/internal/module/leaderboard"
)

var (
	log  *slog.Logger
	svc  *Service
	mail mailer.Sender
)

type ModuleJury struct{}

func (*ModuleJury) GetName() string {
	return "Jury"
}

func (*ModuleJury) Init() {
	log = logger.New("Jury")
	svc = NewService(NewGormStore(database.DB), leaderboard.Invalidate)
	mail = mailer.New()
}

// Default 作品发布状态变化时由 submission 模块调用
func Default() *Service {
	return svc
}
