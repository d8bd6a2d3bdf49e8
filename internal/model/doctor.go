package model

import "github.com/google/uuid"

// DefaultDoctorRating is assigned to freshly created profiles until real
// reviews come in. Ratings are strings on the wire ("4.9"), so the default
// is one too.
const DefaultDoctorRating = "4.0"

// Doctor is the professional profile attached to a user with the doctor role.
type Doctor struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"userId" db:"user_id"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	Rating         string    `json:"rating" db:"rating"`
	ReviewCount    int       `json:"reviewCount" db:"review_count"`
	Available      bool      `json:"available" db:"available"`
}

// DoctorWithUser is the directory projection: a profile joined with its
// owning user record.
type DoctorWithUser struct {
	Doctor
	User User `json:"user" db:"user"`
}
