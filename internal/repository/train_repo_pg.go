package repository

import (
	"context"
	"errors"

	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainRepository interface {
	Create(ctx context.Context, train *domain.Train) error
	GetByNumber(ctx context.Context, number string) (*domain.Train, error)
	List(ctx context.Context) ([]domain.Train, error)
	Delete(ctx context.Context, number string) error
}

type PGTrainRepository struct {
	db *pgxpool.Pool
}

func NewTrainRepository(db *pgxpool.Pool) TrainRepository {
	return &PGTrainRepository{db: db}
}

func (r *PGTrainRepository) Create(ctx context.Context, train *domain.Train) error {
	err := r.db.QueryRow(ctx, `INSERT INTO trains (train_number, train_name, departure_date, start_destination, end_destination)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		train.Number, train.Name, train.DepartureDate, train.StartDestination, train.EndDestination).
		Scan(&train.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateTrain
		}
		return err
	}
	return nil
}

func (r *PGTrainRepository) GetByNumber(ctx context.Context, number string) (*domain.Train, error) {
	row := r.db.QueryRow(ctx, `SELECT train_number, train_name, departure_date, start_destination, end_destination, created_at FROM trains WHERE train_number=$1`, number)
	var t domain.Train
	if err := row.Scan(&t.Number, &t.Name, &t.DepartureDate, &t.StartDestination, &t.EndDestination, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrainNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTrainRepository) List(ctx context.Context) ([]domain.Train, error) {
	rows, err := r.db.Query(ctx, `SELECT train_number, train_name, departure_date, start_destination, end_destination, created_at FROM trains ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trains := make([]domain.Train, 0)
	for rows.Next() {
		var t domain.Train
		if err := rows.Scan(&t.Number, &t.Name, &t.DepartureDate, &t.StartDestination, &t.EndDestination, &t.CreatedAt); err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

func (r *PGTrainRepository) Delete(ctx context.Context, number string) error {
	// Seat rows go with the train via ON DELETE CASCADE.
	res, err := r.db.Exec(ctx, `DELETE FROM trains WHERE train_number=$1`, number)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrTrainNotFound
	}
	return nil
}

var _ TrainRepository = (*PGTrainRepository)(nil)
