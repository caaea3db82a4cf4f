package database

import (
	"competition-jury-system/config"
	"competition-jury-system/internal/global/sentry/tracing"
	"competition-jury-system/internal/model"
	"competition-jury-system/tools"
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// autoMigrateModels 需要自动迁移的模型
var autoMigrateModels = []any{
	&model.User{},
	&model.Competition{},
	&model.Registration{},
	&model.JuryMember{},
	&model.JuryScore{},
	&model.JuryScoringProgress{},
	&model.SubmissionVotingStats{},
	&model.PublicVote{},
}

func Init() {
	c := config.Get().Mysql
	dsnCfg := mysqldriver.NewConfig()
	dsnCfg.User = c.Username
	dsnCfg.Passwd = c.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = c.Host + ":" + c.Port
	dsnCfg.DBName = c.DBName
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.Local
	dsnCfg.Params = map[string]string{"charset": "utf8mb4"}

	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	}
	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsnCfg.FormatDSN()), gormConfig)
	tools.PanicOnErr(err)

	if tracing.Enabled() {
		tools.PanicOnErr(db.Use(tracing.NewGormPlugin()))
	}
	DB = db

	tools.PanicOnErr(DB.AutoMigrate(autoMigrateModels...))
}

// IsDuplicateKey 判断是否违反唯一索引（MySQL 1062）
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
