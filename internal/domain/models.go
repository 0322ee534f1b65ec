package domain

import (
	"sort"
	"strings"
	"time"
)

// GuardType is the kind of screen guard
type GuardType string

const (
	GuardPrivacy     GuardType = "Privacy"
	GuardBlueLight   GuardType = "Blue Light"
	GuardSelfHealing GuardType = "Self-Healing"
)

// GuardTypes lists the supported guard kinds in display order.
var GuardTypes = []GuardType{GuardPrivacy, GuardBlueLight, GuardSelfHealing}

// Valid reports whether t is one of the known guard types.
func (t GuardType) Valid() bool {
	for _, g := range GuardTypes {
		if g == t {
			return true
		}
	}
	return false
}

// DefaultImageURL is used when a product form leaves the image empty.
const DefaultImageURL = "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&q=80&w=600"

// Stock maps a laptop model name to units on hand.
type Stock map[string]int

// Product is a screen guard listed in the catalog.
// JSON names match the persisted catalog payload.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Type        GuardType `json:"type"`
	BasePrice   int64     `json:"basePrice"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	ImageURL    string    `json:"imageUrl"`
	Stock       Stock     `json:"stock"`
}

// Clone returns a deep copy so callers never share the stock map.
func (p Product) Clone() Product {
	cp := p
	if p.Features != nil {
		cp.Features = append([]string(nil), p.Features...)
	}
	if p.Stock != nil {
		cp.Stock = make(Stock, len(p.Stock))
		for m, q := range p.Stock {
			cp.Stock[m] = q
		}
	}
	return cp
}

// TotalStock sums units over every model.
func (p Product) TotalStock() int {
	total := 0
	for _, q := range p.Stock {
		total += q
	}
	return total
}

// IsLowStock reports whether total units are under threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.TotalStock() < threshold
}

// StockFor returns units for a model; unknown models have none.
func (p Product) StockFor(model string) int {
	return p.Stock[model]
}

// OutOfStock reports whether the model cannot be sold.
func (p Product) OutOfStock(model string) bool {
	return p.StockFor(model) == 0
}

// ModelLowStock is the storefront badge: some units left, but at most threshold.
func (p Product) ModelLowStock(model string, threshold int) bool {
	q := p.StockFor(model)
	return q > 0 && q <= threshold
}

// HasModelBelow reports whether any model has fewer than threshold units.
func (p Product) HasModelBelow(threshold int) bool {
	for _, q := range p.Stock {
		if q < threshold {
			return true
		}
	}
	return false
}

// Models returns the supported model names sorted.
func (p Product) Models() []string {
	out := make([]string, 0, len(p.Stock))
	for m := range p.Stock {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ParseFeatures splits a comma separated edit field, dropping blanks.
func ParseFeatures(s string) []string {
	out := make([]string, 0)
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// CartItem is a line in the cart. Product fields are copied at add time.
type CartItem struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Type        GuardType `json:"type"`
	Model       string    `json:"model"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
}

// CartItemID builds the line id for a product under a model.
func CartItemID(productID, model string) string {
	return productID + "-" + model
}

// NewCartItem snapshots p for the given model with quantity 1.
func NewCartItem(p Product, model string) CartItem {
	return CartItem{
		ID:          CartItemID(p.ID, model),
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        p.Type,
		Model:       model,
		Price:       p.BasePrice,
		Quantity:    1,
		ImageURL:    p.ImageURL,
	}
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order records a completed checkout.
type Order struct {
	ID     string      `json:"id"`
	Items  []CartItem  `json:"items"`
	Total  int64       `json:"total"`
	Date   time.Time   `json:"date"`
	Status OrderStatus `json:"status"`
}

// OrderPlaced is published when a checkout completes.
type OrderPlaced struct {
	OrderID  string     `json:"order_id"`
	Items    []CartItem `json:"items"`
	Total    int64      `json:"total"`
	PlacedAt time.Time  `json:"placed_at"`
}

// Credentials is the single admin login pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DefaultCredentials is the demo pair used until an admin changes it.
var DefaultCredentials = Credentials{Username: "admin", Password: "admin123"}

// BrandModels groups preset laptop models under a brand.
type BrandModels struct {
	Brand  string   `json:"brand"`
	Models []string `json:"models"`
}
