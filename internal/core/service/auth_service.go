package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// passwordCost matches bcrypt's 10 rounds used by existing hashes.
const passwordCost = 10

// AuthService implements sign-up, sign-in and the account maintenance
// operations on top of a CredentialStore.
type AuthService struct {
	store ports.CredentialStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewAuthService(store ports.CredentialStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SignUp creates an active account. The email pre-check is a fast path; the
// store's unique constraint is what actually rejects a racing duplicate.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	userType := in.UserType
	if userType == "" {
		userType = domain.DefaultUserType
	}
	if !userType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	// 1. Existing row with this email, active or not.
	if _, err := s.store.FindByEmail(ctx, in.Email, false); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.log.Error().Err(err).Msg("sign-up lookup failed")
		return nil, domain.NewStoreError("find user by email", err)
	}

	// 2. Hash.
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// 3. Insert.
	now := s.now()
	rec := &domain.UserRecord{
		User: domain.User{
			ID:        uuid.NewString(),
			Email:     in.Email,
			FullName:  in.FullName,
			UserType:  userType,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Warn().Msg("sign-up lost race on unique email")
			return nil, domain.ErrDuplicateEmail
		}
		s.log.Error().Err(err).Msg("sign-up insert failed")
		return nil, domain.NewStoreError("insert user", err)
	}

	s.log.Info().Str("user_id", rec.ID).Str("user_type", string(userType)).Msg("user signed up")
	return rec.Public(), nil
}

// SignIn verifies credentials against an active row. Unknown email, inactive
// account and wrong password all yield the same ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	rec, err := s.store.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Msg("sign-in rejected")
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("sign-in lookup failed")
		return nil, domain.NewStoreError("find user by email", err)
	}

	if !verifyPassword(password, rec.PasswordHash) {
		s.log.Warn().Msg("sign-in rejected")
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Info().Str("user_id", rec.ID).Msg("user signed in")
	return rec.Public(), nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user by id", err)
	}
	return rec.Public(), nil
}

// ListUsers returns every account, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list users failed")
		return nil, domain.NewStoreError("list users", err)
	}
	users := make([]*domain.User, 0, len(recs))
	for _, r := range recs {
		users = append(users, r.Public())
	}
	return users, nil
}

// ResetPassword replaces a user's hash. The user is not notified.
func (s *AuthService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if userID == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.SetPasswordHash(ctx, userID, hash, s.now()); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("password reset failed")
		return storeErr("set password hash", err)
	}
	s.log.Info().Str("user_id", userID).Msg("password reset")
	return nil
}

// UpdateProfile merges update into the row and bumps updated_at.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if update.UserType != nil && !update.UserType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	rec, err := s.store.Update(ctx, userID, update, s.now())
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("profile update failed")
		return nil, storeErr("update user", err)
	}
	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return rec.Public(), nil
}

// storeErr keeps ErrUserNotFound recognisable and wraps everything else.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrUserNotFound
	}
	return domain.NewStoreError(op, err)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrInvalidInput
		}
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
