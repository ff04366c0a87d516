package testutil

import (
	"context"
	"sync"

	"github.com/kivee/kivee/internal/domain/product"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
)

// InMemoryProductStore is an in-memory implementation of product.Repository
type InMemoryProductStore struct {
	mu       sync.Mutex
	products map[string]*product.Product
}

// NewInMemoryProductStore creates a new instance of InMemoryProductStore
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		products: make(map[string]*product.Product),
	}
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return ierr.NewError("product already exists").
			WithHint("A product with this ID already exists").
			WithReportableDetails(map[string]interface{}{
				"product_id": p.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.products[p.ID] = p
	return nil
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]interface{}{
				"product_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return p, nil
}

func (s *InMemoryProductStore) List(ctx context.Context) ([]*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Status != types.StatusDeleted {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]interface{}{
				"product_id": p.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	s.products[p.ID] = p
	return nil
}

func (s *InMemoryProductStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists {
		return ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]interface{}{
				"product_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	p.Status = types.StatusDeleted
	return nil
}

// Clear clears all products from the in-memory store
func (s *InMemoryProductStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*product.Product)
}
