package models

import (
	"time"

	"github.com/google/uuid"
)

type SenderType string

const (
	SenderAdmin    SenderType = "admin"
	SenderCustomer SenderType = "customer"
)

// OrderMessage belongs to exactly one order: OrderID for package orders,
// CourseOrderID for course orders.
type OrderMessage struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       *uuid.UUID `json:"order_id"`
	CourseOrderID *uuid.UUID `json:"course_order_id"`
	SenderType    SenderType `json:"sender_type"`
	Message       string     `json:"message"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}
