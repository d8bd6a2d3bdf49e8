package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
	apperrors "github.com/medicarehq/booking-api/pkg/errors"
	"github.com/medicarehq/booking-api/pkg/metrics"
	"github.com/medicarehq/booking-api/pkg/security"
)

// DoctorRegistry is the slice of the doctor service registration needs.
type DoctorRegistry interface {
	Create(ctx context.Context, doctor *model.Doctor) error
}

type Service struct {
	users   repository.UserRepository
	doctors DoctorRegistry
	hasher  security.PasswordHasher
	metrics *metrics.Metrics
}

func NewService(users repository.UserRepository, doctors DoctorRegistry,
	hasher security.PasswordHasher, m *metrics.Metrics) *Service {
	return &Service{
		users:   users,
		doctors: doctors,
		hasher:  hasher,
		metrics: m,
	}
}

// Register creates a user and, for doctors with profile fields supplied, the
// doctor profile. If the profile creation fails the user is deleted again so
// a half-registered doctor never lingers.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.BadRequest("user already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if req.Role == model.RoleDoctor && req.Specialization != "" && req.Experience > 0 {
		doctor := &model.Doctor{
			UserID:         user.ID,
			Specialization: req.Specialization,
			Experience:     req.Experience,
		}
		if err := s.doctors.Create(ctx, doctor); err != nil {
			// Compensate so the registration stays all-or-nothing.
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				log.Error().Err(delErr).
					Str("user_id", user.ID.String()).
					Msg("failed to roll back user after doctor creation failure")
			}
			return nil, fmt.Errorf("failed to create doctor profile: %w", err)
		}
	}

	s.metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()

	log.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user registered")

	return user, nil
}

// Login verifies the credentials and returns the matching user. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	return user, nil
}
