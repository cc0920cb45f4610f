package ports

import (
	"context"
	"time"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// CredentialStore is the keyed collection of user rows. Implementations
// enforce email uniqueness themselves and report a violation as
// domain.ErrDuplicateEmail; missing rows are domain.ErrUserNotFound.
type CredentialStore interface {
	Insert(ctx context.Context, rec *domain.UserRecord) error
	// FindByEmail matches email exactly. When activeOnly is set, inactive rows
	// are treated as missing.
	FindByEmail(ctx context.Context, email string, activeOnly bool) (*domain.UserRecord, error)
	FindByID(ctx context.Context, id string) (*domain.UserRecord, error)
	// List returns every row, newest created_at first.
	List(ctx context.Context) ([]*domain.UserRecord, error)
	Update(ctx context.Context, id string, update domain.ProfileUpdate, updatedAt time.Time) (*domain.UserRecord, error)
	SetPasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error
}
