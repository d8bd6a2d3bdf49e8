package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
	apperrors "github.com/medicarehq/booking-api/pkg/errors"
)

const (
	listCacheKey = "doctors:all"
	listCacheTTL = 30 * time.Second
)

type Service struct {
	doctors repository.DoctorRepository
	users   repository.UserRepository
	cache   *cache.Cache
}

func NewService(doctors repository.DoctorRepository, users repository.UserRepository) *Service {
	return &Service{
		doctors: doctors,
		users:   users,
		cache:   cache.New(listCacheTTL, 5*time.Minute),
	}
}

// Create registers a doctor profile and invalidates the cached directory.
func (s *Service) Create(ctx context.Context, doctor *model.Doctor) error {
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return nil
}

// List returns the doctor directory joined with user records. The result is
// memoized briefly; the landing page hammers this endpoint.
func (s *Service) List(ctx context.Context) ([]*model.DoctorWithUser, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.DoctorWithUser), nil
	}

	doctors, err := s.doctors.ListWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	s.cache.Set(listCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

// Get returns a doctor joined with its owning user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DoctorWithUser, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	user, err := s.users.Get(ctx, doctor.UserID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("doctor user")
		}
		return nil, fmt.Errorf("failed to get doctor user: %w", err)
	}

	return &model.DoctorWithUser{Doctor: *doctor, User: *user}, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return doctor, nil
}
