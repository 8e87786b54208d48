package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/crazyplay/storefront-service/internal/models"
)

// SettingsRepo reads and writes the per-category discount records kept in
// site_settings as jsonb values.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetDiscount returns the stored settings for a category, or the inactive
// zero value when the row was never created.
func (r *SettingsRepo) GetDiscount(ctx context.Context, category models.DiscountCategory) (models.DiscountSettings, error) {
	var raw []byte

	query := `SELECT setting_value FROM site_settings WHERE setting_key = $1`
	err := r.db.QueryRowContext(ctx, query, category.SettingKey()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DiscountSettings{}, nil
		}
		return models.DiscountSettings{}, err
	}

	var s models.DiscountSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.DiscountSettings{}, err
	}
	return s, nil
}

// SaveDiscount creates the row lazily on first save and overwrites it after.
func (r *SettingsRepo) SaveDiscount(ctx context.Context, category models.DiscountCategory, s models.DiscountSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO site_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, category.SettingKey(), raw)
	return err
}
