package service

import (
	"errors"
	"sync"

	"safio/internal/domain"
)

var ErrOutOfStock = errors.New("out of stock for selected model")

// Cart holds the line items of one shopper.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add merges by id: an existing line gains one unit, the incoming quantity
// is ignored. New lines are appended as given.
func (c *Cart) Add(item domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.items = append(c.items, item)
}

// AddProduct snapshots p for model and adds it. Models without units are refused.
func (c *Cart) AddProduct(p domain.Product, model string) (domain.CartItem, error) {
	if p.OutOfStock(model) {
		return domain.CartItem{}, ErrOutOfStock
	}
	item := domain.NewCartItem(p, model)
	c.Add(item)
	got, _ := c.Item(item.ID)
	return got, nil
}

// UpdateQuantity applies delta with a floor of one.
func (c *Cart) UpdateQuantity(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = max(1, c.items[i].Quantity+delta)
			return
		}
	}
}

func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Item returns a copy of the line with id.
func (c *Cart) Item(id string) (domain.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.CartItem{}, false
}

// Items returns a copy of all lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartItem{}, c.items...)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total is recomputed from the current lines on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.items)
}

// Count is the number of units, shown on the cart badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func totalOf(items []domain.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
