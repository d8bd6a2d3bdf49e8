package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	if doctor.Rating == "" {
		doctor.Rating = model.DefaultDoctorRating
	}
	doctor.ReviewCount = 0
	doctor.Available = true

	query := `
		INSERT INTO doctors (id, user_id, specialization, experience, rating, review_count, available)
		VALUES (:id, :user_id, :specialization, :experience, :rating, :review_count, :available)`

	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) ListWithUsers(ctx context.Context) ([]*model.DoctorWithUser, error) {
	// The inner join drops profiles whose user record is gone, matching the
	// memory backend.
	query := `
		SELECT d.id, d.user_id, d.specialization, d.experience, d.rating, d.review_count, d.available,
		       u.id AS "user.id", u.email AS "user.email", u.first_name AS "user.first_name",
		       u.last_name AS "user.last_name", u.phone AS "user.phone", u.role AS "user.role",
		       u.created_at AS "user.created_at"
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		ORDER BY d.specialization`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	result := make([]*model.DoctorWithUser, 0)
	for rows.Next() {
		var d model.DoctorWithUser
		if err := rows.StructScan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}
