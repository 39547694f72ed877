package user

import (
	"time"

	"github.com/google/uuid"

	"productstore-backend/internal/session"
)

// User is the domain entity, mapped 1:1 to the users table.
type User struct {
	// Identity
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`

	// Authentication
	PasswordHash *string `db:"password_hash" json:"-"` // nil for OAuth-only accounts

	// Profile
	FullName string  `db:"full_name" json:"full_name"`
	Gender   *string `db:"gender" json:"gender,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`

	// Which identity provider created the account
	Provider Provider `db:"provider" json:"provider"`

	// Timestamps
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Provider enum
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// IsValid reports whether the provider is one we support
func (p Provider) IsValid() bool {
	switch p {
	case ProviderLocal, ProviderGoogle, ProviderGitHub:
		return true
	}
	return false
}

func (p Provider) String() string {
	return string(p)
}

// Gender values accepted at registration
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// ToDTO strips sensitive fields for API responses
func (u *User) ToDTO() UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
	if u.Gender != nil {
		dto.Gender = *u.Gender
	}
	if u.Phone != nil {
		dto.Phone = *u.Phone
	}
	return dto
}

// ToProfile builds the session profile mirrored into the session cache.
func (u *User) ToProfile() session.Profile {
	p := session.Profile{
		UserID:   u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	return p
}
