package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettingsRepo implements repository.SettingsRepository
type SettingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sqlx.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// All returns every stored setting
func (r *SettingsRepo) All(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}

	return values, rows.Err()
}

// Set upserts a setting value
func (r *SettingsRepo) Set(ctx context.Context, key string, value int, now time.Time) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), key, value, now)
	return err
}
