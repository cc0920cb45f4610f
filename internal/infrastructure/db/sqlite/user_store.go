package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// UserStore implements ports.CredentialStore using SQLite.
type UserStore struct {
	db *sql.DB
}

var _ ports.CredentialStore = (*UserStore)(nil)

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db.SQL}
}

const userColumns = `id, email, password_hash, full_name, user_type, avatar_url, bio, skills, location, is_active, created_at, updated_at`

func (s *UserStore) Insert(ctx context.Context, r *domain.UserRecord) error {
	skills, err := encodeSkills(r.Skills)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Email, r.PasswordHash, r.FullName, string(r.UserType), r.AvatarURL, r.Bio,
		skills, r.Location, r.IsActive, toNanos(r.CreatedAt), toNanos(r.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string, activeOnly bool) (*domain.UserRecord, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	return scanUser(s.db.QueryRowContext(ctx, q, email))
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// List returns every user, newest first.
func (s *UserStore) List(ctx context.Context) ([]*domain.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []*domain.UserRecord{}
	for rows.Next() {
		r, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *UserStore) Update(ctx context.Context, id string, p domain.ProfileUpdate, updatedAt time.Time) (*domain.UserRecord, error) {
	sets := []string{"updated_at = ?"}
	args := []any{toNanos(updatedAt)}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.FullName != nil {
		add("full_name", *p.FullName)
	}
	if p.UserType != nil {
		add("user_type", string(*p.UserType))
	}
	if p.AvatarURL != nil {
		add("avatar_url", *p.AvatarURL)
	}
	if p.Bio != nil {
		add("bio", *p.Bio)
	}
	if p.Skills != nil {
		skills, err := encodeSkills(*p.Skills)
		if err != nil {
			return nil, err
		}
		add("skills", skills)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) SetPasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, toNanos(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.UserRecord, error) {
	var (
		r                    domain.UserRecord
		userType, skills     string
		createdAt, updatedAt int64
	)
	err := row.Scan(&r.ID, &r.Email, &r.PasswordHash, &r.FullName, &userType, &r.AvatarURL, &r.Bio,
		&skills, &r.Location, &r.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	r.UserType = domain.UserType(userType)
	r.CreatedAt = fromNanos(createdAt)
	r.UpdatedAt = fromNanos(updatedAt)
	if err := json.Unmarshal([]byte(skills), &r.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if len(r.Skills) == 0 {
		r.Skills = nil
	}
	return &r, nil
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(b), nil
}
