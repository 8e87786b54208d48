package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
)

var ErrOrderNotFound = errors.New("order_not_found")

type MessageRepo interface {
	ListForOrder(ctx context.Context, kind models.OrderKind, orderID uuid.UUID) ([]models.OrderMessage, error)
	Insert(ctx context.Context, m *models.OrderMessage) error
	MarkRead(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	UnreadCounts(ctx context.Context, sender models.SenderType) (map[uuid.UUID]int, error)
	UnreadCountsForEmail(ctx context.Context, sender models.SenderType, email string) (map[uuid.UUID]int, error)
}

type OrderChecker interface {
	Exists(ctx context.Context, kind models.OrderKind, id uuid.UUID) (bool, error)
}

// Broadcaster pushes a new message to live thread subscribers.
type Broadcaster interface {
	Broadcast(topic string, v interface{})
}

// ThreadTopic names the broadcast topic for one order's message thread.
func ThreadTopic(kind models.OrderKind, orderID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", kind, orderID)
}

type MessageService struct {
	messages MessageRepo
	orders   OrderChecker
	hub      Broadcaster
}

func NewMessageService(messages MessageRepo, orders OrderChecker, hub Broadcaster) *MessageService {
	return &MessageService{messages: messages, orders: orders, hub: hub}
}

func (s *MessageService) Thread(ctx context.Context, kind models.OrderKind, orderID uuid.UUID) ([]models.OrderMessage, error) {
	return s.messages.ListForOrder(ctx, kind, orderID)
}

// Send persists a message against an existing order and pushes it to live
// subscribers of that thread.
func (s *MessageService) Send(ctx context.Context, kind models.OrderKind, orderID uuid.UUID, sender models.SenderType, text string) (*models.OrderMessage, error) {
	exists, err := s.orders.Exists(ctx, kind, orderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	m := &models.OrderMessage{
		ID:         uuid.New(),
		SenderType: sender,
		Message:    text,
	}
	if kind == models.OrderCourse {
		m.CourseOrderID = &orderID
	} else {
		m.OrderID = &orderID
	}

	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(ThreadTopic(kind, orderID), m)
	}
	return m, nil
}

func (s *MessageService) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	return s.messages.MarkRead(ctx, ids)
}

func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.messages.Delete(ctx, id)
}

func (s *MessageService) UnreadCounts(ctx context.Context, sender models.SenderType) (map[uuid.UUID]int, error) {
	return s.messages.UnreadCounts(ctx, sender)
}

// UnreadCountsForEmail restricts the counts to orders placed with email.
func (s *MessageService) UnreadCountsForEmail(ctx context.Context, sender models.SenderType, email string) (map[uuid.UUID]int, error) {
	return s.messages.UnreadCountsForEmail(ctx, sender, email)
}
