package repository

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/storage"
)

func TestOrderLog_CreateListReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	log, err := NewOrderLog(ctx, kv, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }

	o1 := domain.Order{ID: "o1", Items: []domain.CartItem{{ID: "p1-XPS 13", Price: 10, Quantity: 2}}, Total: 20}
	if err := log.Create(ctx, &o1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o1.Status != domain.OrderStatusPending || !o1.Date.Equal(fixed) {
		t.Fatalf("defaults not applied: %+v", o1)
	}
	o2 := domain.Order{ID: "o2", Total: 5}
	_ = log.Create(ctx, &o2)

	list, _ := log.List(ctx)
	if len(list) != 2 || list[0].ID != "o2" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	// reload from storage
	again, err := NewOrderLog(ctx, kv, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got, err := again.GetByID(ctx, "o1")
	if err != nil || got.Total != 20 || len(got.Items) != 1 {
		t.Fatalf("reload failed: %v %+v", err, got)
	}
}

func TestOrderLog_Update(t *testing.T) {
	ctx := context.Background()
	log, _ := NewOrderLog(ctx, storage.NewMemory(), zap.NewNop())
	o := domain.Order{ID: "o1"}
	_ = log.Create(ctx, &o)

	o.Status = domain.OrderStatusShipped
	if err := log.Update(ctx, &o); err != nil {
		t.Fatal(err)
	}
	got, _ := log.GetByID(ctx, "o1")
	if got.Status != domain.OrderStatusShipped {
		t.Fatalf("status not updated")
	}
	if err := log.Update(ctx, &domain.Order{ID: "missing"}); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := log.Create(ctx, &domain.Order{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
