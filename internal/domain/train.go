package domain

import "time"

type Train struct {
	Number           string    `json:"train_number"`
	Name             string    `json:"train_name"`
	DepartureDate    string    `json:"departure_date"`
	StartDestination string    `json:"start_destination"`
	EndDestination   string    `json:"end_destination"`
	CreatedAt        time.Time `json:"created_at"`
}
