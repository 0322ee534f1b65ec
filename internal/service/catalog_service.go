package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"safio/internal/domain"
	"safio/internal/repository"
)

var ErrInvalidInput = errors.New("invalid input")

// DefaultLowStockThreshold matches the storefront badge and admin alerts.
const DefaultLowStockThreshold = 5

// CatalogService wraps the catalog store with the admin form handling and
// the read-only stock queries.
type CatalogService struct {
	repo      repository.CatalogRepository
	threshold int
	now       func() time.Time
}

func NewCatalogService(repo repository.CatalogRepository, lowStockThreshold int) *CatalogService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &CatalogService{repo: repo, threshold: lowStockThreshold, now: time.Now}
}

// ProductForm is what the admin add/edit dialog submits.
type ProductForm struct {
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Type        domain.GuardType `json:"type"`
	BasePrice   int64            `json:"basePrice"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	// Features is the raw comma separated field.
	Features string `json:"features"`
}

func (f ProductForm) validate() error {
	if strings.TrimSpace(f.Name) == "" || !f.Type.Valid() || f.BasePrice < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (f ProductForm) imageURL() string {
	if f.ImageURL == "" {
		return domain.DefaultImageURL
	}
	return f.ImageURL
}

// Create builds a product from the form with an empty stock map and appends it.
func (s *CatalogService) Create(ctx context.Context, f ProductForm) (*domain.Product, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	p := domain.Product{
		ID:          fmt.Sprintf("p-%d", s.now().UnixMilli()),
		Name:        f.Name,
		Brand:       f.Brand,
		Type:        f.Type,
		BasePrice:   f.BasePrice,
		Description: f.Description,
		Features:    domain.ParseFeatures(f.Features),
		ImageURL:    f.imageURL(),
		Stock:       domain.Stock{},
	}
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies the form to an existing product, keeping its id and stock.
func (s *CatalogService) Update(ctx context.Context, id string, f ProductForm) (*domain.Product, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return s.repo.Mutate(ctx, id, func(p *domain.Product) error {
		p.Name = f.Name
		p.Brand = f.Brand
		p.Type = f.Type
		p.BasePrice = f.BasePrice
		p.Description = f.Description
		p.Features = domain.ParseFeatures(f.Features)
		p.ImageURL = f.imageURL()
		return nil
	})
}

// Add appends p as given. The caller owns id uniqueness.
func (s *CatalogService) Add(ctx context.Context, p domain.Product) error {
	return s.repo.Add(ctx, p)
}

// Edit replaces the stored product with the same id.
func (s *CatalogService) Edit(ctx context.Context, p domain.Product) error {
	return s.repo.Edit(ctx, p)
}

// UpdateStock sets units for a model. Negative values are stored as given.
func (s *CatalogService) UpdateStock(ctx context.Context, productID, model string, qty int) error {
	if model == "" {
		return ErrInvalidInput
	}
	return s.repo.UpdateStock(ctx, productID, model, qty)
}

// AddModel registers a model with zero units.
func (s *CatalogService) AddModel(ctx context.Context, productID, model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return ErrInvalidInput
	}
	return s.repo.UpdateStock(ctx, productID, model, 0)
}

// RemoveModel drops a model from the product's stock map.
func (s *CatalogService) RemoveModel(ctx context.Context, productID, model string) error {
	_, err := s.repo.Mutate(ctx, productID, func(p *domain.Product) error {
		if _, ok := p.Stock[model]; !ok {
			return repository.ErrNotFound
		}
		delete(p.Stock, model)
		return nil
	})
	return err
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

// Brands returns the preset brand/model list.
func (s *CatalogService) Brands() []domain.BrandModels {
	return domain.Brands
}

// Listing is a product as shown for the shopper's selected laptop model.
type Listing struct {
	domain.Product
	Model      string `json:"model"`
	StockLevel int    `json:"stockLevel"`
	LowStock   bool   `json:"lowStock"`
	OutOfStock bool   `json:"outOfStock"`
}

// Storefront lists products for a brand and type with per-model badges.
func (s *CatalogService) Storefront(ctx context.Context, f repository.ProductFilter, model string) ([]Listing, error) {
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(list))
	for _, p := range list {
		out = append(out, Listing{
			Product:    p,
			Model:      model,
			StockLevel: p.StockFor(model),
			LowStock:   p.ModelLowStock(model, s.threshold),
			OutOfStock: p.OutOfStock(model),
		})
	}
	return out, nil
}

// InventoryRow is one line of the admin stock table.
type InventoryRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	TotalStock int    `json:"totalStock"`
	ModelCount int    `json:"modelCount"`
	LowStock   bool   `json:"lowStock"`
}

// Dashboard summarises inventory for the admin panel.
type Dashboard struct {
	Products    int            `json:"products"`
	TotalUnits  int            `json:"totalUnits"`
	StockAlerts int            `json:"stockAlerts"`
	Inventory   []InventoryRow `json:"inventory"`
}

func (s *CatalogService) Dashboard(ctx context.Context) (*Dashboard, error) {
	list, err := s.repo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Products: len(list), Inventory: make([]InventoryRow, 0, len(list))}
	for _, p := range list {
		total := p.TotalStock()
		d.TotalUnits += total
		if p.HasModelBelow(s.threshold) {
			d.StockAlerts++
		}
		d.Inventory = append(d.Inventory, InventoryRow{
			ID:         p.ID,
			Name:       p.Name,
			Brand:      p.Brand,
			TotalStock: total,
			ModelCount: len(p.Stock),
			LowStock:   p.IsLowStock(s.threshold),
		})
	}
	return d, nil
}
