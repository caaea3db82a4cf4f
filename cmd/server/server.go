package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"competition-jury-system/config"
	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/global/httpclient"
	"competition-jury-system/internal/global/logger"
	"competition-jury-system/internal/global/metrics"
	"competition-jury-system/internal/global/middleware"
	"competition-jury-system/internal/global/redis"
	"competition-jury-system/internal/global/sentry"
	"competition-jury-system/internal/module"
	"competition-jury-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	} else if sentry.Enabled() {
		log.Info("Sentry Enabled")
	}

	database.Init()
	redis.Init()
	httpclient.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(metrics.Middleware())
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	srv := &http.Server{
		Addr:    config.Get().Host + ":" + config.Get().Port,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()
	log.Info("Server started", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	redis.Close()
	sentry.Flush(2 * time.Second)
}
