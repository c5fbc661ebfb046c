// Package service holds the console's view-state services. Each management
// view follows the same contract: Refresh fetches its collection wholesale,
// mutations call the backend and on success reconcile the held snapshot
// in place (append, replace-by-id, remove-by-id) without a re-fetch. On
// failure the snapshot stays untouched; there is no partial mutation and no
// retry.
package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"sales-console/internal/backend"
	"sales-console/internal/domain"
	"sales-console/internal/query"
)

// ProductsService manages the product catalog view.
type ProductsService struct {
	client *backend.Client
	logger *logrus.Logger

	mu       sync.RWMutex
	products []domain.Product
}

func NewProductsService(client *backend.Client, logger *logrus.Logger) *ProductsService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ProductsService{
		client: client,
		logger: logger,
	}
}

// Refresh replaces the snapshot with a wholesale fetch.
func (s *ProductsService) Refresh(ctx context.Context) error {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		s.logger.Warnf("refresh products: %v", err)
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

// Products returns a copy of the snapshot, optionally filtered by the
// free-text term.
func (s *ProductsService) Products(term string) []domain.Product {
	s.mu.RLock()
	snapshot := make([]domain.Product, len(s.products))
	copy(snapshot, s.products)
	s.mu.RUnlock()

	return query.FilterProducts(snapshot, term)
}

// Find looks up a product by id in the snapshot.
func (s *ProductsService) Find(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Create stores a new product and appends the backend's record.
func (s *ProductsService) Create(ctx context.Context, input backend.ProductInput) (domain.Product, error) {
	created, err := s.client.CreateProduct(ctx, input)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	s.products = append(s.products, created)
	s.mu.Unlock()

	s.logger.Infof("product %d created", created.ID)
	return created, nil
}

// Update replaces a product and reconciles it by id.
func (s *ProductsService) Update(ctx context.Context, id int64, input backend.ProductInput) (domain.Product, error) {
	updated, err := s.client.UpdateProduct(ctx, id, input)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.logger.Infof("product %d updated", id)
	return updated, nil
}

// Delete removes a product and drops it from the snapshot only after the
// backend confirms.
func (s *ProductsService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()

	s.logger.Infof("product %d deleted", id)
	return nil
}
