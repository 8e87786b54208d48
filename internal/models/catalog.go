package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable course or package; OrderKind picks the table.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
