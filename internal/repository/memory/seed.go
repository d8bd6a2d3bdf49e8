package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/pkg/security"
)

const demoPassword = "password123"

type seedDoctor struct {
	email          string
	firstName      string
	lastName       string
	phone          string
	specialization string
	experience     int
	rating         string
	reviewCount    int
}

var seedDoctors = []seedDoctor{
	{"sarah.johnson@medicare.com", "Sarah", "Johnson", "555-0101", "Cardiologist", 15, "4.9", 127},
	{"michael.chen@medicare.com", "Michael", "Chen", "555-0102", "Pediatrician", 12, "4.8", 95},
	{"emily.rodriguez@medicare.com", "Emily", "Rodriguez", "555-0103", "Dermatologist", 8, "4.9", 203},
}

// Seed loads the fixed demo doctors. It writes the maps directly because the
// demo profiles carry ratings and review counts that the repository would
// reset to defaults.
func (s *Store) Seed(hasher security.PasswordHasher) error {
	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range seedDoctors {
		user := model.User{
			ID:           uuid.New(),
			Email:        d.email,
			PasswordHash: hash,
			FirstName:    d.firstName,
			LastName:     d.lastName,
			Phone:        d.phone,
			Role:         model.RoleDoctor,
			CreatedAt:    time.Now(),
		}
		s.users[user.ID] = user

		doctor := model.Doctor{
			ID:             uuid.New(),
			UserID:         user.ID,
			Specialization: d.specialization,
			Experience:     d.experience,
			Rating:         d.rating,
			ReviewCount:    d.reviewCount,
			Available:      true,
		}
		s.doctors[doctor.ID] = doctor
	}
	return nil
}
