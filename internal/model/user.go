package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes the two account types in the system.
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
)

// User represents a registered account, either a patient or a doctor.
// The password hash never leaves the process; JSON marshalling skips it.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Phone        string    `json:"phone" db:"phone"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest carries the registration payload. Specialization and
// Experience are only consulted when Role is "doctor".
type RegisterRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6"`
	FirstName      string   `json:"firstName" binding:"required"`
	LastName       string   `json:"lastName" binding:"required"`
	Phone          string   `json:"phone" binding:"required"`
	Role           UserRole `json:"role" binding:"required,oneof=patient doctor"`
	Specialization string   `json:"specialization"`
	Experience     int      `json:"experience"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
