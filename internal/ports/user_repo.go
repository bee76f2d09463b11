package ports

import (
	"context"

	"github.com/software-students-fall2024/5-final-y2k/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
