package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/storage"
)

// OrderLog keeps completed checkouts, newest last, and persists the list.
type OrderLog struct {
	mu     sync.RWMutex
	orders []domain.Order
	kv     storage.KV
	log    *zap.Logger
	now    func() time.Time
}

var _ OrderRepository = (*OrderLog)(nil)

func NewOrderLog(ctx context.Context, kv storage.KV, log *zap.Logger) (*OrderLog, error) {
	l := &OrderLog{kv: kv, log: log, now: time.Now}
	raw, err := kv.Get(ctx, storage.KeyOrders)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load orders: %w", err)
	default:
		if err := json.Unmarshal(raw, &l.orders); err != nil {
			log.Warn("Stored orders are unreadable, starting empty", zap.Error(err))
			l.orders = nil
		}
	}
	return l, nil
}

func (l *OrderLog) persist(ctx context.Context) error {
	payload, err := json.Marshal(l.orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := l.kv.Set(ctx, storage.KeyOrders, payload); err != nil {
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	return nil
}

func (l *OrderLog) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		return errors.New("order id is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if o.Date.IsZero() {
		o.Date = l.now().UTC()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	cp := *o
	cp.Items = append([]domain.CartItem(nil), o.Items...)
	l.orders = append(l.orders, cp)
	return l.persist(ctx)
}

func (l *OrderLog) GetByID(_ context.Context, id string) (*domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (l *OrderLog) Update(ctx context.Context, o *domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.orders {
		if l.orders[i].ID == o.ID {
			l.orders[i] = *o
			return l.persist(ctx)
		}
	}
	return ErrNotFound
}

// List returns orders newest first.
func (l *OrderLog) List(_ context.Context) ([]domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Order, 0, len(l.orders))
	for i := len(l.orders) - 1; i >= 0; i-- {
		out = append(out, l.orders[i])
	}
	return out, nil
}
