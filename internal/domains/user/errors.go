package user

import "errors"

var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrOAuthExchangeFailed = errors.New("oauth code exchange failed")
	ErrOAuthNotConfigured  = errors.New("oauth provider is not configured")
)
