package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/crazyplay/storefront-service/internal/models"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, order_id, course_order_id, sender_type, message, is_read, created_at`

func scanMessage(row interface{ Scan(...interface{}) error }) (*models.OrderMessage, error) {
	var (
		m             models.OrderMessage
		orderID       sql.NullString
		courseOrderID sql.NullString
	)
	err := row.Scan(&m.ID, &orderID, &courseOrderID, &m.SenderType, &m.Message, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		if id, err := uuid.Parse(orderID.String); err == nil {
			m.OrderID = &id
		}
	}
	if courseOrderID.Valid {
		if id, err := uuid.Parse(courseOrderID.String); err == nil {
			m.CourseOrderID = &id
		}
	}
	return &m, nil
}

// ListForOrder returns a thread oldest-first.
func (r *MessageRepo) ListForOrder(ctx context.Context, kind models.OrderKind, orderID uuid.UUID) ([]models.OrderMessage, error) {
	column := "order_id"
	if kind == models.OrderCourse {
		column = "course_order_id"
	}
	query := `SELECT ` + messageColumns + ` FROM order_messages WHERE ` + column + ` = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.OrderMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepo) Insert(ctx context.Context, m *models.OrderMessage) error {
	query := `
		INSERT INTO order_messages (id, order_id, course_order_id, sender_type, message, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,FALSE,NOW())
		RETURNING created_at
	`
	var orderID, courseOrderID interface{}
	if m.OrderID != nil {
		orderID = *m.OrderID
	}
	if m.CourseOrderID != nil {
		courseOrderID = *m.CourseOrderID
	}
	return r.db.QueryRowContext(ctx, query, m.ID, orderID, courseOrderID, m.SenderType, m.Message).Scan(&m.CreatedAt)
}

func (r *MessageRepo) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `UPDATE order_messages SET is_read = TRUE WHERE id = ANY($1::uuid[])`
	_, err := r.db.ExecContext(ctx, query, pq.Array(raw))
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UnreadCounts groups unread messages from the given sender per order id,
// across both order variants. The admin badge asks for customer senders; the
// customer banner asks for admin senders.
func (r *MessageRepo) UnreadCounts(ctx context.Context, sender models.SenderType) (map[uuid.UUID]int, error) {
	query := `
		SELECT COALESCE(order_id, course_order_id), COUNT(*)
		FROM order_messages
		WHERE is_read = FALSE AND sender_type = $1
		GROUP BY 1
	`
	rows, err := r.db.QueryContext(ctx, query, sender)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCounts(rows)
}

// UnreadCountsForEmail is the customer-facing variant: it only counts
// messages on orders placed with the given email, so one customer can't see
// which other orders exist.
func (r *MessageRepo) UnreadCountsForEmail(ctx context.Context, sender models.SenderType, email string) (map[uuid.UUID]int, error) {
	query := `
		SELECT COALESCE(m.order_id, m.course_order_id), COUNT(*)
		FROM order_messages m
		LEFT JOIN orders o ON o.id = m.order_id
		LEFT JOIN course_orders co ON co.id = m.course_order_id
		WHERE m.is_read = FALSE AND m.sender_type = $1
		  AND COALESCE(o.email, co.email) = $2
		GROUP BY 1
	`
	rows, err := r.db.QueryContext(ctx, query, sender, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCounts(rows)
}

func scanCounts(rows *sql.Rows) (map[uuid.UUID]int, error) {
	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
