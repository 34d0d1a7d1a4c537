package auth

import (
	"context"
)

// AuthService resolves credentials into tokens carrying user_id + role.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (TokenResponse, error)
}
