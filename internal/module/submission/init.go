package submission

import (
	"competition-jury-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleSubmission struct{}

func (*ModuleSubmission) GetName() string {
	return "Submission"
}

func (*ModuleSubmission) Init() {
	log = logger.New("Submission")
}
