package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"productstore-backend/internal/domains/user"
	"productstore-backend/internal/session"
	"productstore-backend/pkg/jwt"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	sessions   *session.Cache
	oauth      *OAuthProviders
}

// NewUserService wires repository, token manager and session cache
func NewUserService(repo user.Repository, jwtManager *jwt.Manager, sessions *session.Cache, oauth *OAuthProviders) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		sessions:   sessions,
		oauth:      oauth,
	}
}

// Register creates a new local account
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// Handler validates too, but double-checking here keeps the service safe
	// when called from other entry points.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// bcrypt cost 12: balance between security and login latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	hash := string(passwordHash)
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hash,
		FullName:     req.FullName,
		Gender:       &req.Gender,
		Phone:        &req.Phone,
		Provider:     user.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

// Login authenticates and activates a session
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, user.ErrInvalidCredentials
	}

	// OAuth-only accounts have no password to compare
	if u.PasswordHash == nil {
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.activateSession(ctx, u)
}

// Logout tears the session down; pending calls with this token now fail
func (s *userService) Logout(ctx context.Context, token string) error {
	return s.sessions.Deactivate(ctx, token)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// activateSession issues the access token and registers it with the
// session cache, which persists it durably and notifies subscribers.
func (s *userService) activateSession(ctx context.Context, u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.sessions.Activate(ctx, accessToken, u.ToProfile()); err != nil {
		return nil, fmt.Errorf("activate session: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(s.jwtManager.AccessExpiry()),
		User:        u.ToDTO(),
	}, nil
}
