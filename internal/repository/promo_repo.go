package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/crazyplay/storefront-service/internal/models"
)

// ErrUsageExhausted is returned by ConsumeUsage when no row qualified: the
// code is gone, or times_used has already hit usage_limit.
var ErrUsageExhausted = errors.New("promo code usage exhausted")

// ErrCodeExists is returned by Create and Update when the code spelling is
// already taken.
var ErrCodeExists = errors.New("promo code already exists")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type PromoRepo struct {
	db *sql.DB
}

func NewPromoRepo(db *sql.DB) *PromoRepo {
	return &PromoRepo{db: db}
}

const promoColumns = `id, code, discount_percentage, is_active, applies_to,
       usage_limit, times_used, valid_from, valid_until, created_at, updated_at`

func scanPromo(row interface{ Scan(...interface{}) error }) (*models.PromoCode, error) {
	var (
		pc         models.PromoCode
		usageLimit sql.NullInt64
		validFrom  sql.NullTime
		validUntil sql.NullTime
	)
	err := row.Scan(
		&pc.ID,
		&pc.Code,
		&pc.DiscountPercentage,
		&pc.IsActive,
		&pc.AppliesTo,
		&usageLimit,
		&pc.TimesUsed,
		&validFrom,
		&validUntil,
		&pc.CreatedAt,
		&pc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int64)
		pc.UsageLimit = &v
	}
	if validFrom.Valid {
		t := validFrom.Time
		pc.ValidFrom = &t
	}
	if validUntil.Valid {
		t := validUntil.Time
		pc.ValidUntil = &t
	}
	return &pc, nil
}

// FindActiveByCode looks a code up for validation. Inactive and missing codes
// both return (nil, nil) so callers can't distinguish them.
func (r *PromoRepo) FindActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1 AND is_active = TRUE`

	pc, err := scanPromo(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pc, nil
}

func (r *PromoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1`

	pc, err := scanPromo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pc, nil
}

// List returns all codes, newest first, for the admin table.
func (r *PromoRepo) List(ctx context.Context) ([]models.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []models.PromoCode{}
	for rows.Next() {
		pc, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *pc)
	}
	return codes, rows.Err()
}

func (r *PromoRepo) Create(ctx context.Context, pc *models.PromoCode) error {
	query := `
		INSERT INTO promo_codes
		(id, code, discount_percentage, is_active, applies_to, usage_limit,
		 times_used, valid_from, valid_until, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,0,$7,$8,NOW(),NOW())
		RETURNING times_used, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		pc.ID,
		pc.Code,
		pc.DiscountPercentage,
		pc.IsActive,
		pc.AppliesTo,
		nullableInt(pc.UsageLimit),
		nullableTime(pc.ValidFrom),
		nullableTime(pc.ValidUntil),
	).Scan(&pc.TimesUsed, &pc.CreatedAt, &pc.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrCodeExists
	}
	return err
}

func (r *PromoRepo) Update(ctx context.Context, pc *models.PromoCode) (bool, error) {
	query := `
		UPDATE promo_codes
		SET code = $2, discount_percentage = $3, is_active = $4, applies_to = $5,
		    usage_limit = $6, valid_from = $7, valid_until = $8, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		pc.ID,
		pc.Code,
		pc.DiscountPercentage,
		pc.IsActive,
		pc.AppliesTo,
		nullableInt(pc.UsageLimit),
		nullableTime(pc.ValidFrom),
		nullableTime(pc.ValidUntil),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrCodeExists
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PromoRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ConsumeUsage increments times_used by one with the limit check inside the
// WHERE clause, so two near-limit checkouts can't both slip past it.
func (r *PromoRepo) ConsumeUsage(ctx context.Context, code string) error {
	query := `
		UPDATE promo_codes
		SET times_used = times_used + 1, updated_at = NOW()
		WHERE code = $1
		  AND (usage_limit IS NULL OR times_used < usage_limit)
	`
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUsageExhausted
	}
	return nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
