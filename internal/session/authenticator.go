package session

import (
	"context"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// Identity is what a session holds and persists: the signed-in user and,
// for remote authenticators, the bearer token issued with it.
type Identity struct {
	User  domain.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Authenticator is the credential backend the manager talks to.
type Authenticator interface {
	SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
}

// ServiceAuthenticator runs an in-process AuthService. It issues no token.
type ServiceAuthenticator struct {
	Service ports.AuthService
}

func (a ServiceAuthenticator) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	return a.Service.SignUp(ctx, in)
}

func (a ServiceAuthenticator) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	user, err := a.Service.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Identity{User: *user}, nil
}
