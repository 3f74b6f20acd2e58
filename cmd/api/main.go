package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/api/handler"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/config"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/event"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/infrastructure/kafka"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-hotel-room-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Get()
	defer logger.Sync()

	m := metrics.Init()
	clk := clock.NewSystem()

	// PostgreSQL 接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション（MIGRATIONS_PATH が設定されている場合のみ）
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(db.DB, path); err != nil {
			log.Fatal("マイグレーションに失敗しました", zap.Error(err))
		}
		log.Info("マイグレーション完了", zap.String("path", path))
	}

	// Redis 接続（部屋ロック・空室数キャッシュ）
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		log.Fatal("Redis接続に失敗しました", zap.Error(err))
	}
	cancelPing()

	lockManager := redisinfra.NewRoomLockManager(
		redisClient,
		cfg.Booking.LockTTL,
		cfg.Booking.LockMaxRetries,
		cfg.Booking.LockRetryDelay,
		m,
	)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	// イベントパブリッシャー（Kafka無効時はNop）
	var publisher event.Publisher = event.NopPublisher{}
	var kafkaPublisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = kafkaPublisher
		log.Info("Kafkaイベント配信を有効化しました",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	holdRepo := postgres.NewHoldRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	roomTypeRepo := postgres.NewRoomTypeRepository(db)
	hotelRepo := postgres.NewHotelRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// サービス
	holdService := application.NewHoldService(
		txManager, holdRepo, roomRepo, hotelRepo, userRepo,
		lockManager, publisher, clk, m,
	)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, holdRepo, roomRepo, roomTypeRepo,
		hotelRepo, userRepo, lockManager, publisher, availabilityCache,
		clk, m, cfg.Booking.HoldsBlockReservations,
	)
	roomService := application.NewRoomService(roomRepo, roomTypeRepo)

	// 期限切れホールドスイーパー
	sweeper := worker.NewHoldSweeper(holdService, cfg.Worker.SweepInterval, clk)
	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	go sweeper.Start(sweeperCtx)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	api.RegisterRoutes(e, api.Handlers{
		Hold:        handler.NewHoldHandler(holdService),
		Reservation: handler.NewReservationHandler(reservationService),
		Room:        handler.NewRoomHandler(roomService),
		Health: handler.NewHealthHandler(
			func(ctx context.Context) error { return postgres.Ping(ctx, db) },
			func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) },
		),
	}, cfg.Metrics.AuthToken)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	log.Info("サーバーを起動しました", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	cancelSweeper()
	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Kafkaパブリッシャーのクローズに失敗しました", zap.Error(err))
		}
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
