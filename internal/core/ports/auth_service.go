package ports

import (
	"context"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// SignUpInput carries the sign-up form.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	UserType domain.UserType // empty means domain.DefaultUserType
}

// AuthService is the credential boundary. No returned value carries a
// password hash.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// Privileged. Callers gate these on an admin identity.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ResetPassword(ctx context.Context, userID, newPassword string) error

	// UpdateProfile performs no authorization of its own.
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}
