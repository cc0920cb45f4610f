package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

var (
	_ ports.FAQRepository     = (*FAQStore)(nil)
	_ ports.SettingRepository = (*SettingStore)(nil)
)

// FAQStore implements ports.FAQRepository using SQLite.
type FAQStore struct {
	db *sql.DB
}

func NewFAQStore(db *DB) *FAQStore {
	return &FAQStore{db: db.SQL}
}

func (s *FAQStore) List(ctx context.Context) ([]*domain.FAQ, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, answer, category, display_order, created_at, updated_at
		 FROM faqs ORDER BY display_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	out := []*domain.FAQ{}
	for rows.Next() {
		var (
			f                    domain.FAQ
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.DisplayOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		f.CreatedAt = fromNanos(createdAt)
		f.UpdatedAt = fromNanos(updatedAt)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (s *FAQStore) Create(ctx context.Context, f *domain.FAQ) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO faqs (id, question, answer, category, display_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Question, f.Answer, f.Category, f.DisplayOrder, toNanos(f.CreatedAt), toNanos(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert faq: %w", err)
	}
	return nil
}

func (s *FAQStore) Update(ctx context.Context, f *domain.FAQ) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE faqs SET question = ?, answer = ?, category = ?, display_order = ?, updated_at = ?
		 WHERE id = ?`,
		f.Question, f.Answer, f.Category, f.DisplayOrder, toNanos(f.UpdatedAt), f.ID,
	)
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

func (s *FAQStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

// SettingStore implements ports.SettingRepository using SQLite.
type SettingStore struct {
	db *sql.DB
}

func NewSettingStore(db *DB) *SettingStore {
	return &SettingStore{db: db.SQL}
}

func (s *SettingStore) List(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT setting_key, setting_value, created_at, updated_at FROM admin_settings ORDER BY created_at, setting_key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := []*domain.Setting{}
	for rows.Next() {
		st, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SettingStore) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return scanSetting(s.db.QueryRowContext(ctx,
		`SELECT setting_key, setting_value, created_at, updated_at FROM admin_settings WHERE setting_key = ?`, key))
}

// Upsert keeps the original created_at of an existing key.
func (s *SettingStore) Upsert(ctx context.Context, st *domain.Setting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_settings (setting_key, setting_value, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (setting_key) DO UPDATE SET
		     setting_value = excluded.setting_value,
		     updated_at = excluded.updated_at`,
		st.Key, st.Value, toNanos(st.CreatedAt), toNanos(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func scanSetting(row rowScanner) (*domain.Setting, error) {
	var (
		st                   domain.Setting
		createdAt, updatedAt int64
	)
	if err := row.Scan(&st.Key, &st.Value, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, fmt.Errorf("scan setting: %w", err)
	}
	st.CreatedAt = fromNanos(createdAt)
	st.UpdatedAt = fromNanos(updatedAt)
	return &st, nil
}
