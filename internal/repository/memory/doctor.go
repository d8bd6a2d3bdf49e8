package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	if doctor.Rating == "" {
		doctor.Rating = model.DefaultDoctorRating
	}
	doctor.ReviewCount = 0
	doctor.Available = true
	r.store.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.getDoctor(id)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, doctor := range r.store.doctors {
		if doctor.UserID == userID {
			d := doctor
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *doctorRepository) ListWithUsers(ctx context.Context) ([]*model.DoctorWithUser, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*model.DoctorWithUser, 0, len(r.store.doctors))
	for _, doctor := range r.store.doctors {
		user, err := r.store.getUser(doctor.UserID)
		if err != nil {
			// Orphaned profile, skip it rather than failing the listing.
			continue
		}
		result = append(result, &model.DoctorWithUser{Doctor: doctor, User: *user})
	}
	return result, nil
}
