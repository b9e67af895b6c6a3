package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatTypeFor(t *testing.T) {
	window := map[int]bool{0: true, 4: true, 5: true, 9: true}
	aisle := map[int]bool{2: true, 3: true, 6: true, 7: true}

	for n := 1; n <= SeatsPerTrain; n++ {
		got := SeatTypeFor(n)

		switch {
		case window[n%10]:
			assert.Equal(t, SeatTypeWindow, got, "seat %d", n)
		case aisle[n%10]:
			assert.Equal(t, SeatTypeAisle, got, "seat %d", n)
		default:
			assert.Equal(t, SeatTypeMiddle, got, "seat %d", n)
		}

		// Deterministic: same input, same answer.
		assert.Equal(t, got, SeatTypeFor(n))
	}
}

func TestSeatTypeFor_FirstSeats(t *testing.T) {
	assert.Equal(t, SeatTypeMiddle, SeatTypeFor(1))
	assert.Equal(t, SeatTypeAisle, SeatTypeFor(2))
	assert.Equal(t, SeatTypeAisle, SeatTypeFor(3))
	assert.Equal(t, SeatTypeWindow, SeatTypeFor(4))
	assert.Equal(t, SeatTypeWindow, SeatTypeFor(5))
}

func TestSeatTypeValid(t *testing.T) {
	assert.True(t, SeatTypeWindow.Valid())
	assert.True(t, SeatTypeAisle.Valid())
	assert.True(t, SeatTypeMiddle.Valid())
	assert.False(t, SeatType("Recliner").Valid())
	assert.False(t, SeatType("").Valid())
}
