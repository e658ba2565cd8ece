package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/config"
	"github.com/hieu182603/SmartAttendance-sub004/internal/api/handler"
	"github.com/hieu182603/SmartAttendance-sub004/internal/api/router"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/database"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/jwt"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/logger"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := database.Migrate(&cfg.Database, log); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("初始化数据库失败", zap.Error(err))
	}

	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		// Redis 只承担黑名单与限流，连不上时降级启动
		log.Warn("Redis 不可用，令牌黑名单与限流已降级", zap.Error(err))
		rdb = nil
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, log)
	h := handler.NewHandler(svc, log)
	jwtMgr := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	engine := router.Setup(cfg, h, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始优雅停机")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("优雅停机失败", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("关闭 Redis 连接失败", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}

	log.Info("服务已退出")
}
