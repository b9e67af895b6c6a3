package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkrylov/railbooking/api"
	"github.com/dkrylov/railbooking/config"
	"github.com/dkrylov/railbooking/internal/bootstrap"
	"github.com/dkrylov/railbooking/internal/cache"
	"github.com/dkrylov/railbooking/internal/kafka"
	"github.com/dkrylov/railbooking/internal/logger"
	"github.com/dkrylov/railbooking/internal/repository"
	"github.com/dkrylov/railbooking/internal/service/booking"
	"github.com/dkrylov/railbooking/internal/service/trains"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		zlog.Fatal("migrate schema", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TrainsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	trainRepo := repository.NewTrainRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)

	trainService := trains.NewTrainService(trainRepo, seatRepo, redisCache, producer, cfg.Kafka.TicketsTopic, zlog)
	bookingService := booking.NewBookingService(
		trainRepo,
		seatRepo,
		redisCache,
		producer,
		cfg.Kafka.TicketsTopic,
		time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
		zlog,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	trainHandler := api.NewTrainHandler(trainService)
	bookingHandler := api.NewBookingHandler(bookingService)

	zlog.Info("starting server", zap.String("address", cfg.HTTP.Address))
	if err := bootstrap.Run(ctx, cfg, zlog, trainHandler, bookingHandler); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
