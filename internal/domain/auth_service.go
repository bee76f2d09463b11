package domain

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	users  ports.UserRepository
	secret string
}

func NewAuthService(users ports.UserRepository, secret string) ports.AuthService {
	return &authService{
		users:  users,
		secret: secret,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return shared.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, username, string(hash))
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", shared.ErrValidation
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.ErrInvalidCredentials
	}

	return user.Username + ":" + s.sign(user.Username), nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (string, bool) {
	i := strings.LastIndex(token, ":")
	if i <= 0 {
		return "", false
	}

	username, sig := token[:i], token[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.sign(username))) {
		return "", false
	}

	return username, true
}

func (s *authService) sign(msg string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
