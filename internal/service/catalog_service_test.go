package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/repository"
	"safio/internal/storage"
)

func setupCatalog(t *testing.T) *CatalogService {
	t.Helper()
	store, err := repository.NewCatalogStore(context.Background(), storage.NewMemory(), zap.NewNop())
	if err != nil {
		t.Fatalf("new catalog store: %v", err)
	}
	svc := NewCatalogService(store, 0)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	p, err := svc.Create(ctx, ProductForm{
		Name:      "Matte Guard",
		Brand:     "HP",
		Type:      domain.GuardBlueLight,
		BasePrice: 799,
		Features:  " Anti-glare , ,Matte finish,",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != "p-1700000000000" {
		t.Fatalf("unexpected id %q", p.ID)
	}
	if diff := cmp.Diff([]string{"Anti-glare", "Matte finish"}, p.Features); diff != "" {
		t.Fatalf("features mismatch:\n%s", diff)
	}
	if p.ImageURL != domain.DefaultImageURL {
		t.Fatalf("expected default image, got %q", p.ImageURL)
	}
	if p.Stock == nil || len(p.Stock) != 0 {
		t.Fatalf("expected empty stock map, got %v", p.Stock)
	}
	got, err := svc.GetByID(ctx, p.ID)
	if err != nil || got.Name != "Matte Guard" {
		t.Fatalf("created product not stored: %v %+v", err, got)
	}
}

func TestCatalogService_CreateInvalid(t *testing.T) {
	svc := setupCatalog(t)
	cases := []ProductForm{
		{Name: "", Type: domain.GuardPrivacy},
		{Name: "X", Type: "Matte"},
		{Name: "X", Type: domain.GuardPrivacy, BasePrice: -1},
	}
	for _, f := range cases {
		if _, err := svc.Create(context.Background(), f); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("form %+v: expected ErrInvalidInput, got %v", f, err)
		}
	}
}

func TestCatalogService_UpdateKeepsStock(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	p, err := svc.Update(ctx, "p1", ProductForm{
		Name:      "Renamed",
		Brand:     "Apple",
		Type:      domain.GuardPrivacy,
		BasePrice: 1399,
		ImageURL:  "https://example.com/x.png",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Name != "Renamed" || p.BasePrice != 1399 || p.ImageURL != "https://example.com/x.png" {
		t.Fatalf("update not applied: %+v", p)
	}
	if p.Stock[`MacBook Pro 14"`] != 25 {
		t.Fatalf("stock lost: %v", p.Stock)
	}
	if _, err := svc.Update(ctx, "nope", ProductForm{Name: "X", Type: domain.GuardPrivacy}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_UpdateRacesStockChanges(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	form := ProductForm{Name: "Renamed", Brand: "Dell", Type: domain.GuardSelfHealing, BasePrice: 899}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := svc.UpdateStock(ctx, "p3", fmt.Sprintf("Model %d", i), i+1); err != nil {
				t.Errorf("update stock: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := svc.Update(ctx, "p3", form); err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	p3, _ := svc.GetByID(ctx, "p3")
	for i := 0; i < 20; i++ {
		if q := p3.Stock[fmt.Sprintf("Model %d", i)]; q != i+1 {
			t.Fatalf("stock for Model %d lost: %v", i, p3.Stock)
		}
	}
}

func TestCatalogService_EditMissingLeavesCatalog(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	before, _ := svc.List(ctx, repository.ProductFilter{})
	err := svc.Edit(ctx, domain.Product{ID: "ghost", Name: "Ghost"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after, _ := svc.List(ctx, repository.ProductFilter{})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("catalog changed:\n%s", diff)
	}
}

func TestCatalogService_UpdateStockScenario(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	if err := svc.UpdateStock(ctx, "p1", `MacBook Pro 14"`, 3); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	p1, _ := svc.GetByID(ctx, "p1")
	if p1.Stock[`MacBook Pro 14"`] != 3 || p1.Stock[`MacBook Pro 16"`] != 10 {
		t.Fatalf("unexpected p1 stock %v", p1.Stock)
	}
	p2, _ := svc.GetByID(ctx, "p2")
	if diff := cmp.Diff(domain.SeedProducts()[1], *p2); diff != "" {
		t.Fatalf("p2 changed:\n%s", diff)
	}
	if err := svc.UpdateStock(ctx, "p1", "", 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogService_Models(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	if err := svc.AddModel(ctx, "p3", "  Latitude 5440 "); err != nil {
		t.Fatalf("add model: %v", err)
	}
	p3, _ := svc.GetByID(ctx, "p3")
	if q, ok := p3.Stock["Latitude 5440"]; !ok || q != 0 {
		t.Fatalf("model not added with 0 units: %v", p3.Stock)
	}
	if err := svc.AddModel(ctx, "p3", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank model should be refused, got %v", err)
	}
	if err := svc.RemoveModel(ctx, "p3", "Latitude 5440"); err != nil {
		t.Fatalf("remove model: %v", err)
	}
	p3, _ = svc.GetByID(ctx, "p3")
	if _, ok := p3.Stock["Latitude 5440"]; ok {
		t.Fatalf("model still present: %v", p3.Stock)
	}
	if err := svc.RemoveModel(ctx, "p3", "Latitude 5440"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_Storefront(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	if err := svc.UpdateStock(ctx, "p1", `MacBook Pro 16"`, 4); err != nil {
		t.Fatal(err)
	}
	list, err := svc.Storefront(ctx, repository.ProductFilter{Brand: "Apple"}, `MacBook Pro 16"`)
	if err != nil {
		t.Fatalf("storefront: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 Apple products, got %d", len(list))
	}
	if !list[0].LowStock || list[0].OutOfStock || list[0].StockLevel != 4 {
		t.Fatalf("p1 badges wrong: %+v", list[0])
	}
	if list[1].LowStock || !list[1].OutOfStock {
		t.Fatalf("p2 badges wrong: %+v", list[1])
	}
}

func TestCatalogService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc := setupCatalog(t)
	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Products != 3 {
		t.Fatalf("expected 3 products, got %d", d.Products)
	}
	var want int
	for _, p := range domain.SeedProducts() {
		want += p.TotalStock()
	}
	if d.TotalUnits != want {
		t.Fatalf("expected %d units, got %d", want, d.TotalUnits)
	}
	if err := svc.UpdateStock(ctx, "p2", `MacBook Air 15"`, 2); err != nil {
		t.Fatal(err)
	}
	d, _ = svc.Dashboard(ctx)
	if d.StockAlerts < 1 {
		t.Fatalf("expected a stock alert, got %d", d.StockAlerts)
	}
}
