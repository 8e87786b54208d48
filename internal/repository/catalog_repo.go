package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
)

// CatalogRepo reads and maintains the sellable courses and packages. Order
// intake resolves authoritative prices here; the client never supplies one.
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func catalogTable(kind models.OrderKind) string {
	if kind == models.OrderCourse {
		return "courses"
	}
	return "packages"
}

const productColumns = `id, title, price, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) Find(ctx context.Context, kind models.OrderKind, id uuid.UUID) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, productColumns, catalogTable(kind))

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns products of a kind; activeOnly limits it to the public
// storefront view.
func (r *CatalogRepo) List(ctx context.Context, kind models.OrderKind, activeOnly bool) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, productColumns, catalogTable(kind))
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *CatalogRepo) Create(ctx context.Context, kind models.OrderKind, p *models.Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, price, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING created_at, updated_at
	`, catalogTable(kind))
	return r.db.QueryRowContext(ctx, query, p.ID, p.Title, p.Price, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *CatalogRepo) Update(ctx context.Context, kind models.OrderKind, p *models.Product) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET title = $2, price = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`, catalogTable(kind))

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Price, p.IsActive)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *CatalogRepo) Delete(ctx context.Context, kind models.OrderKind, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, catalogTable(kind))

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
