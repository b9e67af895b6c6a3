package domain

type SeatType string

const (
	SeatTypeWindow SeatType = "Window"
	SeatTypeAisle  SeatType = "Aisle"
	SeatTypeMiddle SeatType = "Middle"
)

// SeatsPerTrain is the fixed inventory size of every train.
const SeatsPerTrain = 50

func (t SeatType) Valid() bool {
	switch t {
	case SeatTypeWindow, SeatTypeAisle, SeatTypeMiddle:
		return true
	}
	return false
}

type Seat struct {
	SeatNumber      int      `json:"seat_number"`
	SeatType        SeatType `json:"seat_type"`
	Booked          bool     `json:"booked"`
	PassengerName   string   `json:"passenger_name"`
	PassengerAge    int      `json:"passenger_age"`
	PassengerGender string   `json:"passenger_gender"`
}

// SeatTypeFor classifies a seat by the last digit of its number.
// The classification is a physical attribute of the seat and never
// changes once the inventory is provisioned.
func SeatTypeFor(seatNumber int) SeatType {
	switch seatNumber % 10 {
	case 0, 4, 5, 9:
		return SeatTypeWindow
	case 2, 3, 6, 7:
		return SeatTypeAisle
	default:
		return SeatTypeMiddle
	}
}
