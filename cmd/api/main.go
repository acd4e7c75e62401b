package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Engjell02/NightOut-Event-Management/internal/api"
	"github.com/Engjell02/NightOut-Event-Management/internal/api/handler"
	apimiddleware "github.com/Engjell02/NightOut-Event-Management/internal/api/middleware"
	"github.com/Engjell02/NightOut-Event-Management/internal/application"
	"github.com/Engjell02/NightOut-Event-Management/internal/config"
	"github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/feed"
	"github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/postgres"
	redisinfra "github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/redis"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/logger"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/metrics"
	"github.com/Engjell02/NightOut-Event-Management/internal/worker"
)

func main() {
	// .env があれば読み込む（なくてもエラーにしない）
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger(cfg.Env)
	logger.Set(log)
	defer logger.Sync()

	m := metrics.Init()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		log.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis接続（ロックとキャッシュに使用）
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		cancel()
		log.Fatal("Redis接続に失敗", zap.Error(err))
	}
	cancel()

	// リポジトリ初期化
	eventRepo := postgres.NewEventRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	performerRepo := postgres.NewPerformerRepository(db)
	txManager := postgres.NewTxManager(db)

	lockManager := redisinfra.NewLockManager(redisClient)
	spotsCache := redisinfra.NewSpotsCache(redisClient)

	// サービス初期化
	reservationService := application.NewReservationService(txManager, reservationRepo, eventRepo, lockManager, spotsCache)
	eventService := application.NewEventService(eventRepo, reservationRepo, spotsCache)
	reportService := application.NewReportService(reservationRepo, eventRepo, locationRepo, performerRepo)

	feedClient := feed.NewClient(cfg.Importer.FeedURL, cfg.Importer.Timeout)
	importService := application.NewImportService(feedClient, eventRepo, locationRepo, performerRepo)

	// ハンドラー初期化
	reservationHandler := handler.NewReservationHandler(reservationService)
	eventHandler := handler.NewEventHandler(eventService)
	reportHandler := handler.NewReportHandler(reportService, importService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.GET("/events/:id/spots/available", eventHandler.AvailableSpots)
	v1.PUT("/events/:id", eventHandler.Update)
	v1.DELETE("/events/:id", eventHandler.Delete)

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/my", reservationHandler.My)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	admin := v1.Group("/admin")
	admin.GET("/reservations", reservationHandler.ListAll)
	admin.POST("/reservations/:id/approve", reservationHandler.Approve)
	admin.POST("/reservations/:id/reject", reservationHandler.Reject)
	admin.GET("/dashboard", reportHandler.Dashboard)
	admin.GET("/reports/approved-people", reportHandler.ApprovedPeople)
	admin.POST("/import", reportHandler.Import)

	// フィード取込ワーカー起動
	var importWorker *worker.FeedImportWorker
	if cfg.Importer.Enabled {
		importWorker = worker.NewFeedImportWorker(importService, cfg.Importer.Interval)
		go importWorker.Start(context.Background())
	}

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	log.Info("サーバー起動",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Env),
	)

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	if importWorker != nil {
		importWorker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
