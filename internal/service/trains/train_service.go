package trains

import (
	"context"
	"errors"
	"time"

	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/dkrylov/railbooking/internal/kafka"
	"github.com/dkrylov/railbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TrainUseCase interface {
	Add(ctx context.Context, input AddTrainInput) (*domain.Train, error)
	List(ctx context.Context) ([]domain.Train, error)
	GetByNumber(ctx context.Context, number string) (*domain.Train, error)
	Delete(ctx context.Context, number string) error
}

type Cache interface {
	GetTrains(ctx context.Context) ([]domain.Train, error)
	SetTrains(ctx context.Context, trains []domain.Train) error
	InvalidateTrains(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TrainService struct {
	trains   repository.TrainRepository
	seats    repository.SeatRepository
	cache    Cache
	producer Producer
	topic    string
	logger   *zap.Logger
}

type AddTrainInput struct {
	Number           string `json:"train_number"`
	Name             string `json:"train_name"`
	DepartureDate    string `json:"departure_date"`
	StartDestination string `json:"start_destination"`
	EndDestination   string `json:"end_destination"`
}

func NewTrainService(
	trains repository.TrainRepository,
	seats repository.SeatRepository,
	cache Cache,
	producer Producer,
	topic string,
	logger *zap.Logger,
) *TrainService {
	return &TrainService{
		trains:   trains,
		seats:    seats,
		cache:    cache,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Add registers a train and provisions its 50-seat inventory. The two
// writes are not one transaction: a crash in between leaves a train
// without seats, which the booking path and the worker sweep both
// repair through idempotent provisioning.
func (s *TrainService) Add(ctx context.Context, input AddTrainInput) (*domain.Train, error) {
	if input.Number == "" {
		return nil, errors.New("train number is required")
	}
	if input.Name == "" {
		return nil, errors.New("train name is required")
	}

	train := &domain.Train{
		Number:           input.Number,
		Name:             input.Name,
		DepartureDate:    input.DepartureDate,
		StartDestination: input.StartDestination,
		EndDestination:   input.EndDestination,
	}

	if err := s.trains.Create(ctx, train); err != nil {
		return nil, err
	}

	if err := s.seats.Provision(ctx, train.Number); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateTrains(ctx)
	}
	s.publish(ctx, "train_added", train.Number)

	return train, nil
}

func (s *TrainService) List(ctx context.Context) ([]domain.Train, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrains(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	trains, err := s.trains.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrains(ctx, trains)
	}
	return trains, nil
}

func (s *TrainService) GetByNumber(ctx context.Context, number string) (*domain.Train, error) {
	return s.trains.GetByNumber(ctx, number)
}

// Delete destroys the train's seat inventory and removes the train
// record. The schema's cascading foreign key would drop the seats on
// its own; destroying them explicitly keeps the inventory's lifecycle
// in one place.
func (s *TrainService) Delete(ctx context.Context, number string) error {
	if _, err := s.trains.GetByNumber(ctx, number); err != nil {
		return err
	}

	if err := s.seats.Destroy(ctx, number); err != nil {
		return err
	}
	if err := s.trains.Delete(ctx, number); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateTrains(ctx)
	}
	s.publish(ctx, "train_deleted", number)

	return nil
}

func (s *TrainService) publish(ctx context.Context, eventType, trainNumber string) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.TicketEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		TrainNumber: trainNumber,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, trainNumber, event); err != nil {
		s.logger.Warn("failed to publish train event",
			zap.String("type", eventType),
			zap.String("train", trainNumber),
			zap.Error(err),
		)
	}
}

var _ TrainUseCase = (*TrainService)(nil)
