package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/storage"
)

// CatalogStore keeps the product list in memory and rewrites the stored
// payload after every mutation. Order of insertion is preserved.
type CatalogStore struct {
	mu       sync.RWMutex
	products []domain.Product
	kv       storage.KV
	log      *zap.Logger
}

var _ CatalogRepository = (*CatalogStore)(nil)

// NewCatalogStore loads the stored catalog once. Missing or unreadable
// payloads fall back to the seed catalog.
func NewCatalogStore(ctx context.Context, kv storage.KV, log *zap.Logger) (*CatalogStore, error) {
	s := &CatalogStore{kv: kv, log: log}
	raw, err := kv.Get(ctx, storage.KeyProducts)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.products = domain.SeedProducts()
	case err != nil:
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	default:
		var list []domain.Product
		if err := json.Unmarshal(raw, &list); err != nil {
			log.Warn("Stored catalog is unreadable, using seed catalog", zap.Error(err))
			list = domain.SeedProducts()
		}
		s.products = list
	}
	log.Info("Catalog loaded", zap.Int("products", len(s.products)))
	return s, nil
}

// persist must be called with mu held.
func (s *CatalogStore) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyProducts, payload); err != nil {
		s.log.Error("Failed to persist catalog", zap.Error(err))
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

// indexOf returns the first product with id, or -1.
func (s *CatalogStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends p. Ids are not checked for uniqueness.
func (s *CatalogStore) Add(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p.Clone()
	if cp.Stock == nil {
		cp.Stock = domain.Stock{}
	}
	s.products = append(s.products, cp)
	return s.persist(ctx)
}

// Edit replaces the product with the same id in place.
func (s *CatalogStore) Edit(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(p.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.products[i] = p.Clone()
	return s.persist(ctx)
}

// UpdateStock sets the units for one model. Any integer is accepted.
func (s *CatalogStore) UpdateStock(ctx context.Context, productID, model string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return ErrNotFound
	}
	// copy the map so previously returned products stay untouched
	p := s.products[i].Clone()
	if p.Stock == nil {
		p.Stock = domain.Stock{}
	}
	p.Stock[model] = qty
	s.products[i] = p
	return s.persist(ctx)
}

func (s *CatalogStore) Mutate(ctx context.Context, id string, fn func(p *domain.Product) error) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.products[i].Clone()
	if p.Stock == nil {
		p.Stock = domain.Stock{}
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	p.ID = s.products[i].ID
	s.products[i] = p
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	out := p.Clone()
	return &out, nil
}

func (s *CatalogStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	cp := s.products[i].Clone()
	return &cp, nil
}

func (s *CatalogStore) List(_ context.Context, f ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.match(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}
