package ports

import "context"

type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (username string, ok bool)
}
