package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business logic contract for the user domain
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)

	// OAuthRedirectURL returns the provider consent URL for the given
	// anti-CSRF state.
	OAuthRedirectURL(provider string, state string) (string, error)
	// CompleteOAuth exchanges the callback code, upserts the account and
	// activates a session. Runs asynchronously relative to the login
	// redirect; completion is announced on the session cache channel.
	CompleteOAuth(ctx context.Context, provider string, code string) (*LoginResponse, error)
}
