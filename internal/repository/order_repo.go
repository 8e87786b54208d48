package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
)

// OrderRepo serves both order variants; the kind picks the backing table.
// Package and course orders live in separate tables with their own product
// column names, matching the messages table's split foreign keys.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

type orderTable struct {
	name        string
	productID   string
	productName string
}

func tableFor(kind models.OrderKind) orderTable {
	if kind == models.OrderCourse {
		return orderTable{name: "course_orders", productID: "course_id", productName: "course_name"}
	}
	return orderTable{name: "orders", productID: "package_id", productName: "package_name"}
}

func (t orderTable) columns() string {
	return fmt.Sprintf(`id, %s, %s, price, discord_name, email, status,
       applied_discount_kind, applied_discount_percent, promo_code,
       created_at, updated_at`, t.productID, t.productName)
}

func scanOrder(row interface{ Scan(...interface{}) error }, kind models.OrderKind) (*models.Order, error) {
	var (
		o         models.Order
		productID sql.NullString
		promoCode sql.NullString
	)
	err := row.Scan(
		&o.ID,
		&productID,
		&o.ProductName,
		&o.Price,
		&o.DiscordName,
		&o.Email,
		&o.Status,
		&o.AppliedDiscountKind,
		&o.AppliedDiscountPercent,
		&promoCode,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Kind = kind
	if productID.Valid {
		id, err := uuid.Parse(productID.String)
		if err == nil {
			o.ProductID = &id
		}
	}
	if promoCode.Valid {
		c := promoCode.String
		o.PromoCode = &c
	}
	return &o, nil
}

func (r *OrderRepo) Insert(ctx context.Context, o *models.Order) error {
	t := tableFor(o.Kind)
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, %s, %s, price, discord_name, email, status,
		 applied_discount_kind, applied_discount_percent, promo_code,
		 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		RETURNING created_at, updated_at
	`, t.name, t.productID, t.productName)

	var productID interface{}
	if o.ProductID != nil {
		productID = *o.ProductID
	}
	var promoCode interface{}
	if o.PromoCode != nil {
		promoCode = *o.PromoCode
	}

	return r.db.QueryRowContext(ctx, query,
		o.ID,
		productID,
		o.ProductName,
		o.Price,
		o.DiscordName,
		o.Email,
		o.Status,
		o.AppliedDiscountKind,
		o.AppliedDiscountPercent,
		promoCode,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// List returns all orders of a kind, newest first, for the admin table.
func (r *OrderRepo) List(ctx context.Context, kind models.OrderKind) ([]models.Order, error) {
	t := tableFor(kind)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, t.columns(), t.name)
	return r.queryOrders(ctx, kind, query)
}

// ListByEmail returns a customer's own orders of a kind, newest first.
func (r *OrderRepo) ListByEmail(ctx context.Context, kind models.OrderKind, email string) ([]models.Order, error) {
	t := tableFor(kind)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1 ORDER BY created_at DESC`, t.columns(), t.name)
	return r.queryOrders(ctx, kind, query, email)
}

func (r *OrderRepo) queryOrders(ctx context.Context, kind models.OrderKind, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows, kind)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepo) Exists(ctx context.Context, kind models.OrderKind, id uuid.UUID) (bool, error) {
	t := tableFor(kind)
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1`, t.name)

	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, kind models.OrderKind, id uuid.UUID, status models.OrderStatus) (bool, error) {
	t := tableFor(kind)
	query := fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1`, t.name)

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *OrderRepo) Delete(ctx context.Context, kind models.OrderKind, id uuid.UUID) (bool, error) {
	t := tableFor(kind)
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
