package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sales-console/internal/backend"
	"sales-console/internal/domain"
	"sales-console/internal/query"
)

// SalesService manages the sales view: the sale records plus the product and
// user lists needed to resolve names in the table and the sale form.
type SalesService struct {
	client *backend.Client
	logger *logrus.Logger

	mu       sync.RWMutex
	sales    []domain.Sale
	products []domain.Product
	users    []domain.User
}

func NewSalesService(client *backend.Client, logger *logrus.Logger) *SalesService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SalesService{
		client: client,
		logger: logger,
	}
}

// Refresh loads sales, products and users concurrently. The three fetches
// are independent; any failure fails the whole refresh and leaves the
// previous snapshot in place.
func (s *SalesService) Refresh(ctx context.Context) error {
	var (
		sales    []domain.Sale
		products []domain.Product
		users    []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.client.ListSales(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.client.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.client.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warnf("refresh sales view: %v", err)
		return err
	}

	s.mu.Lock()
	s.sales = sales
	s.products = products
	s.users = users
	s.mu.Unlock()
	return nil
}

// Derive applies the filter criteria to the current snapshot and computes
// the aggregate figures.
func (s *SalesService) Derive(f query.Filters, now time.Time) query.Derived {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.DeriveSales(s.sales, s.products, s.users, f, now)
}

// Products returns the product list loaded alongside the sales.
func (s *SalesService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domain.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// Users returns the user list loaded alongside the sales.
func (s *SalesService) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domain.User, len(s.users))
	copy(snapshot, s.users)
	return snapshot
}

// Sales returns a copy of the unfiltered snapshot.
func (s *SalesService) Sales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domain.Sale, len(s.sales))
	copy(snapshot, s.sales)
	return snapshot
}

// Find looks up a sale by id in the snapshot.
func (s *SalesService) Find(id int64) (domain.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			return sale, true
		}
	}
	return domain.Sale{}, false
}

// Create stores a new sale and appends the backend's record.
func (s *SalesService) Create(ctx context.Context, input backend.SaleInput) (domain.Sale, error) {
	created, err := s.client.CreateSale(ctx, input)
	if err != nil {
		return domain.Sale{}, err
	}

	s.mu.Lock()
	s.sales = append(s.sales, created)
	s.mu.Unlock()

	s.logger.Infof("sale %d created", created.ID)
	return created, nil
}

// Update replaces a sale and reconciles it by id.
func (s *SalesService) Update(ctx context.Context, id int64, input backend.SaleInput) (domain.Sale, error) {
	updated, err := s.client.UpdateSale(ctx, id, input)
	if err != nil {
		return domain.Sale{}, err
	}

	s.mu.Lock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.logger.Infof("sale %d updated", id)
	return updated, nil
}

// Delete removes a sale and drops it from the snapshot only after the
// backend confirms.
func (s *SalesService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteSale(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.sales[:0]
	for _, sale := range s.sales {
		if sale.ID != id {
			kept = append(kept, sale)
		}
	}
	s.sales = kept
	s.mu.Unlock()

	s.logger.Infof("sale %d deleted", id)
	return nil
}
