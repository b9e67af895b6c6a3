package booking

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

type BookingUseCase interface {
	Book(ctx context.Context, input BookTicketInput) (*domain.Seat, error)
	Cancel(ctx context.Context, trainNumber string, seatNumber int) error
	ViewSeats(ctx context.Context, trainNumber string) ([]domain.Seat, error)
	NextAvailable(ctx context.Context, trainNumber string, seatType domain.SeatType) (int, error)
}

type Cache interface {
	AcquireBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	trains             repository.TrainRepository
	seats              repository.SeatRepository
	cache              Cache
	producer           Producer
	ticketsTopic       string
	notificationsTopic string
	lockTTL            time.Duration
	logger             *zap.Logger
}

type BookTicketInput struct {
	TrainNumber     string          `json:"train_number"`
	PassengerName   string          `json:"passenger_name"`
	PassengerAge    int             `json:"passenger_age"`
	PassengerGender string          `json:"passenger_gender"`
	SeatType        domain.SeatType `json:"seat_type"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	trains repository.TrainRepository,
	seats repository.SeatRepository,
	cache Cache,
	producer Producer,
	ticketsTopic string,
	lockTTL time.Duration,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		trains:       trains,
		seats:        seats,
		cache:        cache,
		producer:     producer,
		ticketsTopic: ticketsTopic,
		lockTTL:      lockTTL,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book assigns the lowest-numbered free seat of the requested type to
// the passenger. The train must exist; a missing inventory is healed by
// provisioning before allocation.
func (s *BookingService) Book(ctx context.Context, input BookTicketInput) (*domain.Seat, error) {
	if input.PassengerName == "" {
		return nil, errors.New("passenger name is required")
	}
	if input.PassengerAge <= 0 {
		return nil, errors.New("passenger age must be positive")
	}
	if input.PassengerGender == "" {
		return nil, errors.New("passenger gender is required")
	}
	if !input.SeatType.Valid() {
		return nil, domain.ErrInvalidSeatType
	}

	if _, err := s.trains.GetByNumber(ctx, input.TrainNumber); err != nil {
		return nil, err
	}

	// Best-effort lock per train and seat type. Losing the race here is
	// fine: the claim below is atomic on its own.
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, input.TrainNumber, input.SeatType, s.lockTTL)
		if err == nil && ok {
			defer func() {
				_ = s.cache.ReleaseBookingLock(ctx, input.TrainNumber, input.SeatType)
			}()
		}
	}

	if err := s.seats.Provision(ctx, input.TrainNumber); err != nil {
		return nil, err
	}

	seatNumber, err := s.seats.Book(ctx, input.TrainNumber, input.SeatType, input.PassengerName, input.PassengerAge, input.PassengerGender)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "ticket_booked", input.TrainNumber, seatNumber, input.SeatType, input.PassengerName)

	return &domain.Seat{
		SeatNumber:      seatNumber,
		SeatType:        input.SeatType,
		Booked:          true,
		PassengerName:   input.PassengerName,
		PassengerAge:    input.PassengerAge,
		PassengerGender: input.PassengerGender,
	}, nil
}

// Cancel clears the seat regardless of whether it was booked, so
// cancelling twice behaves the same as cancelling once.
func (s *BookingService) Cancel(ctx context.Context, trainNumber string, seatNumber int) error {
	if seatNumber < 1 || seatNumber > domain.SeatsPerTrain {
		return domain.ErrSeatOutOfRange
	}

	if _, err := s.trains.GetByNumber(ctx, trainNumber); err != nil {
		return err
	}

	if err := s.seats.Release(ctx, trainNumber, seatNumber); err != nil {
		return err
	}

	s.publish(ctx, "ticket_cancelled", trainNumber, seatNumber, "", "")

	return nil
}

func (s *BookingService) ViewSeats(ctx context.Context, trainNumber string) ([]domain.Seat, error) {
	if _, err := s.trains.GetByNumber(ctx, trainNumber); err != nil {
		return nil, err
	}
	return s.seats.ListByTrain(ctx, trainNumber)
}

// NextAvailable reports the seat a booking of the given type would get,
// without claiming it.
func (s *BookingService) NextAvailable(ctx context.Context, trainNumber string, seatType domain.SeatType) (int, error) {
	if !seatType.Valid() {
		return 0, domain.ErrInvalidSeatType
	}
	if _, err := s.trains.GetByNumber(ctx, trainNumber); err != nil {
		return 0, err
	}
	if err := s.seats.Provision(ctx, trainNumber); err != nil {
		return 0, err
	}
	return s.seats.NextAvailable(ctx, trainNumber, seatType)
}

func (s *BookingService) publish(ctx context.Context, eventType, trainNumber string, seatNumber int, seatType domain.SeatType, passenger string) {
	if s.producer == nil || s.ticketsTopic == "" {
		return
	}
	event := kafka.TicketEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		TrainNumber: trainNumber,
		SeatNumber:  seatNumber,
		SeatType:    string(seatType),
		Passenger:   passenger,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.ticketsTopic, trainNumber, event); err != nil {
		s.logger.Warn("failed to publish ticket event",
			zap.String("type", eventType),
			zap.String("train", trainNumber),
			zap.Int("seat", seatNumber),
			zap.Error(err),
		)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, trainNumber, event); err != nil {
			s.logger.Warn("failed to publish notification",
				zap.String("type", eventType),
				zap.String("train", trainNumber),
				zap.Error(err),
			)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
