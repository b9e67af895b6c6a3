package domain

import "errors"

var (
	ErrTrainNotFound   = errors.New("train not found")
	ErrDuplicateTrain  = errors.New("train number already exists")
	ErrNoSeatAvailable = errors.New("no available seat of the requested type")
	ErrSeatOutOfRange  = errors.New("seat number out of range")
	ErrInvalidSeatType = errors.New("invalid seat type")
)
