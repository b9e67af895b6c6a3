package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkrylov/railbooking/config"
	"github.com/dkrylov/railbooking/internal/email"
	"github.com/dkrylov/railbooking/internal/kafka"
	"github.com/dkrylov/railbooking/internal/logger"
	"github.com/dkrylov/railbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	seatRepo := repository.NewSeatRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(zlog)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.TicketEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zlog.Warn("decode event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			zlog.Warn("consumer stopped", zap.Error(err))
		}
	}()

	// The add-train path provisions seats outside the insert
	// transaction, so a crash can leave a train with no inventory.
	// Sweep for such trains and re-provision them.
	sweep := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-sweep.C:
			numbers, err := seatRepo.ListUnprovisioned(ctx)
			if err != nil {
				zlog.Warn("list unprovisioned trains", zap.Error(err))
				continue
			}
			for _, number := range numbers {
				if err := seatRepo.Provision(ctx, number); err != nil {
					zlog.Warn("provision inventory", zap.String("train", number), zap.Error(err))
					continue
				}
				zlog.Info("provisioned missing inventory", zap.String("train", number))
			}
		case <-ctx.Done():
			zlog.Info("shutting down")
			return
		}
	}
}
