package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkrylov/railbooking/config"
	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	trainsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, trainsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		trainsTTL: trainsTTL,
	}
}

func (c *RedisCache) GetTrains(ctx context.Context) ([]domain.Train, error) {
	data, err := c.client.Get(ctx, trainsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trains []domain.Train
	if err := json.Unmarshal(data, &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

func (c *RedisCache) SetTrains(ctx context.Context, trains []domain.Train) error {
	payload, err := json.Marshal(trains)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, trainsKey(), payload, c.trainsTTL).Err()
}

func (c *RedisCache) InvalidateTrains(ctx context.Context) error {
	return c.client.Del(ctx, trainsKey()).Err()
}

// AcquireBookingLock narrows contention between concurrent bookings for
// the same train and seat type. The conditional update in the seat
// repository is the correctness guarantee; this lock only spares the
// database pile-ups.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(trainNumber, seatType), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType) error {
	return c.client.Del(ctx, bookingLockKey(trainNumber, seatType)).Err()
}

func trainsKey() string {
	return "cache:trains"
}

func bookingLockKey(trainNumber string, seatType domain.SeatType) string {
	return fmt.Sprintf("lock:train:%s:type:%s", trainNumber, seatType)
}
