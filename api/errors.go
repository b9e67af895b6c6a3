package api

import (
	"errors"
	"net/http"

	"github.com/dkrylov/railbooking/internal/domain"
)

// statusFor maps core failures onto HTTP statuses so handlers stay
// free of error-taxonomy knowledge.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTrainNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTrain):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoSeatAvailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSeatOutOfRange), errors.Is(err, domain.ErrInvalidSeatType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
