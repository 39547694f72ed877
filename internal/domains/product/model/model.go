package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product - Domain Entity (from database)
type Product struct {
	// Identity
	ID      uuid.UUID `json:"id" db:"id"`
	OwnerID uuid.UUID `json:"user_id" db:"user_id"`

	// Content
	Title   string          `json:"title" db:"title"`
	Content string          `json:"content" db:"content"`
	Cost    decimal.Decimal `json:"cost" db:"cost"`

	// Media; set only after a successful upload, preserved across
	// updates unless a new banner is uploaded
	BannerImage *string `json:"banner_image,omitempty" db:"banner_image"`

	// Timestamps; created_at drives the default newest-first order
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Patch carries the fields of a submit; BannerImage is nil when no new
// banner was uploaded, which must leave the stored value untouched.
type Patch struct {
	Title       string
	Content     string
	Cost        decimal.Decimal
	BannerImage *string
}

// Upload is a staged banner file accompanying a submit.
type Upload struct {
	Filename string
	Data     []byte
}
