package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNotFound signals an unknown product id.
var ErrNotFound = errors.New("catalog: product not found")

// Product is the merchant catalog view the engine depends on. Amounts are
// integer minor currency units.
type Product struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	BaseAmount int64  `json:"base_amount"`
	InStock    bool   `json:"in_stock"`
}

// Service is the product lookup collaborator consumed by the pricing layer.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// Static serves a fixed product set loaded at startup.
type Static struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewStatic builds a catalog from the provided products.
func NewStatic(products []Product) *Static {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Static{products: byID}
}

// LoadFile reads a JSON array of products from disk.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if len(products) == 0 {
		return nil, errors.New("catalog file contains no products")
	}
	return NewStatic(products), nil
}

// GetProduct returns a copy of the product or ErrNotFound.
func (s *Static) GetProduct(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}
