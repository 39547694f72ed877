package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for the user domain
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
	// UpsertOAuthUser creates the account on first social login and
	// refreshes the display name on subsequent ones.
	UpsertOAuthUser(ctx context.Context, email, fullName string, provider Provider) (*User, error)
}
