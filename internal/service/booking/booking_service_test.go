package booking

import (
	"context"
	"testing"
	"time"

	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTrainRepository struct {
	mock.Mock
}

func (m *MockTrainRepository) Create(ctx context.Context, train *domain.Train) error {
	args := m.Called(ctx, train)
	return args.Error(0)
}

func (m *MockTrainRepository) GetByNumber(ctx context.Context, number string) (*domain.Train, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Train), args.Error(1)
}

func (m *MockTrainRepository) List(ctx context.Context) ([]domain.Train, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Train), args.Error(1)
}

func (m *MockTrainRepository) Delete(ctx context.Context, number string) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) Provision(ctx context.Context, trainNumber string) error {
	args := m.Called(ctx, trainNumber)
	return args.Error(0)
}

func (m *MockSeatRepository) ListByTrain(ctx context.Context, trainNumber string) ([]domain.Seat, error) {
	args := m.Called(ctx, trainNumber)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) NextAvailable(ctx context.Context, trainNumber string, seatType domain.SeatType) (int, error) {
	args := m.Called(ctx, trainNumber, seatType)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) Book(ctx context.Context, trainNumber string, seatType domain.SeatType, name string, age int, gender string) (int, error) {
	args := m.Called(ctx, trainNumber, seatType, name, age, gender)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) Release(ctx context.Context, trainNumber string, seatNumber int) error {
	args := m.Called(ctx, trainNumber, seatNumber)
	return args.Error(0)
}

func (m *MockSeatRepository) Destroy(ctx context.Context, trainNumber string) error {
	args := m.Called(ctx, trainNumber)
	return args.Error(0)
}

func (m *MockSeatRepository) ListUnprovisioned(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, trainNumber, seatType, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseBookingLock(ctx context.Context, trainNumber string, seatType domain.SeatType) error {
	args := m.Called(ctx, trainNumber, seatType)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(trains *MockTrainRepository, seats *MockSeatRepository, cache *MockCache, producer *MockProducer) *BookingService {
	return NewBookingService(
		trains,
		seats,
		cache,
		producer,
		"tickets",
		time.Minute,
		zap.NewNop(),
		WithNotificationsTopic("notifications"),
	)
}

func TestBookingService_Book_Success(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTrains, mockSeats, mockCache, mockProducer)

	ctx := context.Background()
	input := BookTicketInput{
		TrainNumber:     "101",
		PassengerName:   "Alice",
		PassengerAge:    30,
		PassengerGender: "Female",
		SeatType:        domain.SeatTypeWindow,
	}

	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101", Name: "Express"}, nil).Once()
	mockCache.On("AcquireBookingLock", ctx, "101", domain.SeatTypeWindow, time.Minute).Return(true, nil).Once()
	mockCache.On("ReleaseBookingLock", ctx, "101", domain.SeatTypeWindow).Return(nil).Once()
	mockSeats.On("Provision", ctx, "101").Return(nil).Once()
	mockSeats.On("Book", ctx, "101", domain.SeatTypeWindow, "Alice", 30, "Female").Return(5, nil).Once()
	mockProducer.On("Publish", ctx, "tickets", "101", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "101", mock.Anything).Return(nil).Once()

	seat, err := service.Book(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, seat)
	assert.Equal(t, 5, seat.SeatNumber)
	assert.Equal(t, domain.SeatTypeWindow, seat.SeatType)
	assert.True(t, seat.Booked)
	assert.Equal(t, "Alice", seat.PassengerName)
	assert.Equal(t, 30, seat.PassengerAge)
	assert.Equal(t, "Female", seat.PassengerGender)

	mockTrains.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockSeats.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Book_TrainNotFound(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTrains, mockSeats, mockCache, mockProducer)

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "999").Return(nil, domain.ErrTrainNotFound).Once()

	seat, err := service.Book(ctx, BookTicketInput{
		TrainNumber:     "999",
		PassengerName:   "Alice",
		PassengerAge:    30,
		PassengerGender: "Female",
		SeatType:        domain.SeatTypeWindow,
	})

	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	assert.Nil(t, seat)

	mockTrains.AssertExpectations(t)
	mockSeats.AssertNotCalled(t, "Book")
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_Book_NoSeatAvailable(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTrains, mockSeats, mockCache, mockProducer)

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101"}, nil).Once()
	mockCache.On("AcquireBookingLock", ctx, "101", domain.SeatTypeAisle, time.Minute).Return(true, nil).Once()
	mockCache.On("ReleaseBookingLock", ctx, "101", domain.SeatTypeAisle).Return(nil).Once()
	mockSeats.On("Provision", ctx, "101").Return(nil).Once()
	mockSeats.On("Book", ctx, "101", domain.SeatTypeAisle, "Bob", 40, "Male").Return(0, domain.ErrNoSeatAvailable).Once()

	seat, err := service.Book(ctx, BookTicketInput{
		TrainNumber:     "101",
		PassengerName:   "Bob",
		PassengerAge:    40,
		PassengerGender: "Male",
		SeatType:        domain.SeatTypeAisle,
	})

	assert.ErrorIs(t, err, domain.ErrNoSeatAvailable)
	assert.Nil(t, seat)

	mockSeats.AssertExpectations(t)
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_Book_ValidationErrors(t *testing.T) {
	service := NewBookingService(nil, nil, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()

	testCases := []struct {
		name  string
		input BookTicketInput
	}{
		{
			name: "empty passenger name",
			input: BookTicketInput{
				TrainNumber:     "101",
				PassengerAge:    30,
				PassengerGender: "Female",
				SeatType:        domain.SeatTypeWindow,
			},
		},
		{
			name: "non-positive age",
			input: BookTicketInput{
				TrainNumber:     "101",
				PassengerName:   "Alice",
				PassengerGender: "Female",
				SeatType:        domain.SeatTypeWindow,
			},
		},
		{
			name: "empty gender",
			input: BookTicketInput{
				TrainNumber:   "101",
				PassengerName: "Alice",
				PassengerAge:  30,
				SeatType:      domain.SeatTypeWindow,
			},
		},
		{
			name: "unknown seat type",
			input: BookTicketInput{
				TrainNumber:     "101",
				PassengerName:   "Alice",
				PassengerAge:    30,
				PassengerGender: "Female",
				SeatType:        domain.SeatType("Recliner"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seat, err := service.Book(ctx, tc.input)
			assert.Error(t, err)
			assert.Nil(t, seat)
		})
	}
}

func TestBookingService_Book_LockContention(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTrains, mockSeats, mockCache, mockProducer)

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101"}, nil).Once()
	// Lock held elsewhere: the booking proceeds anyway, the conditional
	// update keeps it safe.
	mockCache.On("AcquireBookingLock", ctx, "101", domain.SeatTypeWindow, time.Minute).Return(false, nil).Once()
	mockSeats.On("Provision", ctx, "101").Return(nil).Once()
	mockSeats.On("Book", ctx, "101", domain.SeatTypeWindow, "Alice", 30, "Female").Return(4, nil).Once()
	mockProducer.On("Publish", ctx, "tickets", "101", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "101", mock.Anything).Return(nil).Once()

	seat, err := service.Book(ctx, BookTicketInput{
		TrainNumber:     "101",
		PassengerName:   "Alice",
		PassengerAge:    30,
		PassengerGender: "Female",
		SeatType:        domain.SeatTypeWindow,
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, seat.SeatNumber)

	mockCache.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "ReleaseBookingLock")
}

func TestBookingService_Cancel_Success(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTrains, mockSeats, mockCache, mockProducer)

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101"}, nil).Once()
	mockSeats.On("Release", ctx, "101", 5).Return(nil).Once()
	mockProducer.On("Publish", ctx, "tickets", "101", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "101", mock.Anything).Return(nil).Once()

	err := service.Cancel(ctx, "101", 5)

	assert.NoError(t, err)
	mockTrains.AssertExpectations(t)
	mockSeats.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Cancel_SeatOutOfRange(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	service := NewBookingService(mockTrains, nil, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()

	assert.ErrorIs(t, service.Cancel(ctx, "101", 0), domain.ErrSeatOutOfRange)
	assert.ErrorIs(t, service.Cancel(ctx, "101", 51), domain.ErrSeatOutOfRange)

	mockTrains.AssertNotCalled(t, "GetByNumber")
}

func TestBookingService_Cancel_TrainNotFound(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}

	service := NewBookingService(mockTrains, mockSeats, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "999").Return(nil, domain.ErrTrainNotFound).Once()

	err := service.Cancel(ctx, "999", 5)

	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	mockSeats.AssertNotCalled(t, "Release")
}

func TestBookingService_ViewSeats(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}

	service := NewBookingService(mockTrains, mockSeats, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()
	seats := []domain.Seat{
		{SeatNumber: 1, SeatType: domain.SeatTypeMiddle},
		{SeatNumber: 2, SeatType: domain.SeatTypeAisle},
	}
	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101"}, nil).Once()
	mockSeats.On("ListByTrain", ctx, "101").Return(seats, nil).Once()

	got, err := service.ViewSeats(ctx, "101")

	assert.NoError(t, err)
	assert.Equal(t, seats, got)
}

func TestBookingService_ViewSeats_TrainNotFound(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}

	service := NewBookingService(mockTrains, mockSeats, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "999").Return(nil, domain.ErrTrainNotFound).Once()

	got, err := service.ViewSeats(ctx, "999")

	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	assert.Nil(t, got)
	mockSeats.AssertNotCalled(t, "ListByTrain")
}

func TestBookingService_NextAvailable(t *testing.T) {
	mockTrains := &MockTrainRepository{}
	mockSeats := &MockSeatRepository{}

	service := NewBookingService(mockTrains, mockSeats, nil, nil, "tickets", time.Minute, zap.NewNop())

	ctx := context.Background()
	mockTrains.On("GetByNumber", ctx, "101").Return(&domain.Train{Number: "101"}, nil).Once()
	mockSeats.On("Provision", ctx, "101").Return(nil).Once()
	mockSeats.On("NextAvailable", ctx, "101", domain.SeatTypeWindow).Return(5, nil).Once()

	seatNumber, err := service.NextAvailable(ctx, "101", domain.SeatTypeWindow)

	assert.NoError(t, err)
	assert.Equal(t, 5, seatNumber)
}

func TestBookingService_NextAvailable_InvalidType(t *testing.T) {
	service := NewBookingService(nil, nil, nil, nil, "tickets", time.Minute, zap.NewNop())

	_, err := service.NextAvailable(context.Background(), "101", domain.SeatType("Recliner"))

	assert.ErrorIs(t, err, domain.ErrInvalidSeatType)
}
