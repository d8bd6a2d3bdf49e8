// Package memory provides the default storage backend: plain in-process maps
// guarded by a read-write mutex. All data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
)

// Store holds every entity map. The per-entity repositories share a single
// Store so joins see one consistent dataset.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]model.User
	doctors      map[uuid.UUID]model.Doctor
	appointments map[uuid.UUID]model.Appointment
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]model.User),
		doctors:      make(map[uuid.UUID]model.Doctor),
		appointments: make(map[uuid.UUID]model.Appointment),
	}
}

// Ping satisfies the health checker; an in-memory store is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Lookup helpers shared by the repositories. Callers must hold s.mu.

func (s *Store) getUser(id uuid.UUID) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (s *Store) getDoctor(id uuid.UUID) (*model.Doctor, error) {
	doctor, ok := s.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doctor, nil
}
