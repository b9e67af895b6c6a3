package repository

import (
	"context"
	"errors"

	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	Provision(ctx context.Context, trainNumber string) error
	ListByTrain(ctx context.Context, trainNumber string) ([]domain.Seat, error)
	NextAvailable(ctx context.Context, trainNumber string, seatType domain.SeatType) (int, error)
	Book(ctx context.Context, trainNumber string, seatType domain.SeatType, name string, age int, gender string) (int, error)
	Release(ctx context.Context, trainNumber string, seatNumber int) error
	Destroy(ctx context.Context, trainNumber string) error
	ListUnprovisioned(ctx context.Context) ([]string, error)
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

// Provision creates the 50-row inventory for a train. Calling it on a
// train that already has seats is a no-op, so both the add-train path
// and the lazy check before allocation can call it unconditionally.
func (r *PGSeatRepository) Provision(ctx context.Context, trainNumber string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE train_number=$1)`, trainNumber).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	rows := make([][]any, 0, domain.SeatsPerTrain)
	for n := 1; n <= domain.SeatsPerTrain; n++ {
		rows = append(rows, []any{trainNumber, n, string(domain.SeatTypeFor(n)), false, "", 0, ""})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"train_number", "seat_number", "seat_type", "booked", "passenger_name", "passenger_age", "passenger_gender"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGSeatRepository) ListByTrain(ctx context.Context, trainNumber string) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number, seat_type, booked, passenger_name, passenger_age, passenger_gender FROM seats WHERE train_number=$1 ORDER BY seat_number`, trainNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, domain.SeatsPerTrain)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.SeatNumber, &s.SeatType, &s.Booked, &s.PassengerName, &s.PassengerAge, &s.PassengerGender); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *PGSeatRepository) NextAvailable(ctx context.Context, trainNumber string, seatType domain.SeatType) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT seat_number FROM seats WHERE train_number=$1 AND seat_type=$2 AND NOT booked ORDER BY seat_number LIMIT 1`, trainNumber, seatType)
	var seatNumber int
	if err := row.Scan(&seatNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNoSeatAvailable
		}
		return 0, err
	}
	return seatNumber, nil
}

// Book claims the lowest-numbered free seat of the requested type and
// records the passenger in one statement. Two concurrent calls can
// never claim the same seat: the candidate row is locked before the
// update and a claimed row no longer matches NOT booked.
func (r *PGSeatRepository) Book(ctx context.Context, trainNumber string, seatType domain.SeatType, name string, age int, gender string) (int, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE seats s
		SET booked = TRUE, passenger_name = $3, passenger_age = $4, passenger_gender = $5
		FROM (
			SELECT seat_number FROM seats
			WHERE train_number = $1 AND seat_type = $2 AND NOT booked
			ORDER BY seat_number
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		) candidate
		WHERE s.train_number = $1 AND s.seat_number = candidate.seat_number
		RETURNING s.seat_number`,
		trainNumber, seatType, name, age, gender)

	var seatNumber int
	if err := row.Scan(&seatNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNoSeatAvailable
		}
		return 0, err
	}
	return seatNumber, nil
}

// Release clears a seat unconditionally. Releasing a seat that is
// already empty affects the row without changing it, so cancellation
// stays idempotent.
func (r *PGSeatRepository) Release(ctx context.Context, trainNumber string, seatNumber int) error {
	_, err := r.db.Exec(ctx, `UPDATE seats SET booked=FALSE, passenger_name='', passenger_age=0, passenger_gender='' WHERE train_number=$1 AND seat_number=$2`, trainNumber, seatNumber)
	return err
}

func (r *PGSeatRepository) Destroy(ctx context.Context, trainNumber string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM seats WHERE train_number=$1`, trainNumber)
	return err
}

// ListUnprovisioned reports trains that have no seat rows at all, the
// state the reconciliation sweep repairs.
func (r *PGSeatRepository) ListUnprovisioned(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.train_number
		FROM trains t
		LEFT JOIN seats s ON s.train_number = t.train_number
		WHERE s.train_number IS NULL
		ORDER BY t.train_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

var _ SeatRepository = (*PGSeatRepository)(nil)
