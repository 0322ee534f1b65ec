package repository

import (
	"context"
	"errors"
	"strings"

	"safio/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// AnyValue is the storefront's "no filter" choice.
const AnyValue = "All"

// ProductFilter narrows a catalog listing. Zero values and AnyValue match everything.
type ProductFilter struct {
	Brand         string
	Type          domain.GuardType
	NameSubstring string
}

func (f ProductFilter) match(p domain.Product) bool {
	if f.Brand != "" && f.Brand != AnyValue && p.Brand != f.Brand {
		return false
	}
	if f.Type != "" && f.Type != AnyValue && p.Type != f.Type {
		return false
	}
	return containsIgnoreCase(p.Name, f.NameSubstring)
}

// CatalogRepository holds the product list. Mutations persist the whole list.
type CatalogRepository interface {
	Add(ctx context.Context, p domain.Product) error
	Edit(ctx context.Context, p domain.Product) error
	UpdateStock(ctx context.Context, productID, model string, qty int) error
	// Mutate applies fn to a copy of the product under the store lock and
	// saves it unless fn fails.
	Mutate(ctx context.Context, id string, fn func(p *domain.Product) error) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// CredentialsRepository holds the single admin credential pair.
type CredentialsRepository interface {
	Get(ctx context.Context) (domain.Credentials, error)
	Save(ctx context.Context, c domain.Credentials) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
