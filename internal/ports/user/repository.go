package user

import (
	"context"

	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository stores the accounts the rest of the schema points at.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	IsStaff   bool   `json:"is_staff"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}
