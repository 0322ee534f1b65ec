package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/messaging"
	"safio/internal/repository"
)

// OrderService реализует логику заказов: запись завершённых оплат и смену статуса
type OrderService struct {
	orders    repository.OrderRepository
	publisher messaging.Publisher
	log       *zap.Logger
	newID     func() string
}

func NewOrderService(orders repository.OrderRepository, publisher messaging.Publisher, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		log:       log,
		newID:     func() string { return uuid.New().String() },
	}
}

// Record stores the order for a completed checkout and announces it.
// A publish failure is logged; the order stays recorded.
func (s *OrderService) Record(ctx context.Context, r Receipt) (*domain.Order, error) {
	o := domain.Order{
		ID:     s.newID(),
		Items:  r.Items,
		Total:  r.Total,
		Date:   r.CompletedAt,
		Status: domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, &o); err != nil {
		return nil, err
	}
	event := domain.OrderPlaced{
		OrderID:  o.ID,
		Items:    o.Items,
		Total:    o.Total,
		PlacedAt: o.Date,
	}
	if err := s.publisher.PublishEvent(ctx, messaging.TopicOrdersPlaced, o.ID, event); err != nil {
		s.log.Error("Failed to publish OrderPlaced", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.log.Info("Order recorded", zap.String("order_id", o.ID), zap.Int64("total", o.Total), zap.Int("items", len(o.Items)))
	return &o, nil
}

// RecordAsync adapts Record to the checkout completion hook.
func (s *OrderService) RecordAsync(timeout time.Duration) func(Receipt) {
	return func(r Receipt) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := s.Record(ctx, r); err != nil {
			s.log.Error("Failed to record order", zap.Error(err))
		}
	}
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus moves an order forward: pending -> shipped -> delivered.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if rank(status) < 0 {
		return nil, ErrInvalidInput
	}
	if rank(status) <= rank(o.Status) {
		return nil, ErrInvalidState
	}
	o.Status = status
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func rank(st domain.OrderStatus) int {
	switch st {
	case domain.OrderStatusPending:
		return 0
	case domain.OrderStatusShipped:
		return 1
	case domain.OrderStatusDelivered:
		return 2
	default:
		return -1
	}
}
