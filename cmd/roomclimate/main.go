package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomclimate/internal/config"
	httpapi "roomclimate/internal/http"
	"roomclimate/internal/repository"
	"roomclimate/internal/service"
	"roomclimate/internal/store"
	"roomclimate/pkg/database"
	logpkg "roomclimate/pkg/logger"
	"roomclimate/pkg/redisutil"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "roomclimate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting roomclimate service")

	// 初始化数据库
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// 初始化响应缓存（可选，缓存关闭时不依赖 Redis）
	var kv store.KV
	var cacheTTL time.Duration
	if cfg.Query.CacheEnabled {
		redisClient := redisutil.NewRedisClient(&cfg.Redis)
		if err := redisutil.Ping(context.Background(), redisClient); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisutil.Close(redisClient)
		kv = store.NewRedisKV(redisClient)
		cacheTTL = time.Duration(cfg.Query.CacheTTL) * time.Second
	}

	// 组装查询服务
	roomsRepo := repository.NewPostgresRoomsRepository(db)
	attachmentsRepo := repository.NewPostgresAttachmentsRepository(db)
	readingsRepo := repository.NewPostgresReadingsRepository(db)
	climateSvc := service.NewClimateService(roomsRepo, attachmentsRepo, readingsRepo, kv, cacheTTL, log)

	// 注册路由
	router := httpapi.NewRouter(log)
	router.RegisterClimateRoutes(httpapi.NewClimateHandler(climateSvc, log))

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 启动 HTTP 服务（在 goroutine 中）
	errChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// 等待信号或错误
	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("HTTP server error", zap.Error(err))
	}

	// 优雅停机
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", zap.Error(err))
	}

	log.Info("Service stopped")
}
