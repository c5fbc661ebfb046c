package service

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sales-console/internal/backend"
	"sales-console/internal/domain"
	"sales-console/internal/query"
)

const recentLimit = 5

// DashboardData is one dashboard load: backend metrics plus the console-side
// derived figures.
type DashboardData struct {
	Metrics      domain.Metrics
	RecentSales  []domain.Sale
	Products     []domain.Product
	ProductCount int
	TodayCount   int
	TopProduct   string
	DailyTotals  []DailyTotal
}

// DailyTotal is one day's summed sales amount, for the chart.
type DailyTotal struct {
	Day   string
	Total float64
}

// DashboardService aggregates the dashboard's three data sources.
type DashboardService struct {
	client *backend.Client
	logger *logrus.Logger
}

func NewDashboardService(client *backend.Client, logger *logrus.Logger) *DashboardService {
	if logger == nil {
		logger = logrus.New()
	}
	return &DashboardService{
		client: client,
		logger: logger,
	}
}

// Load fires the metrics, sales and products fetches concurrently and joins
// all-or-nothing: one failure fails the whole load, there is no
// partial-success rendering path.
func (s *DashboardService) Load(ctx context.Context) (DashboardData, error) {
	var (
		metrics  domain.Metrics
		sales    []domain.Sale
		products []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metrics, err = s.client.Metrics(gctx)
		return err
	})
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
	if err := g.Wait(); err != nil {
		s.logger.Warnf("load dashboard: %v", err)
		return DashboardData{}, err
	}

	derived := query.DeriveSales(sales, products, nil, query.Filters{}, time.Now())

	recent := sales
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	shown := products
	if len(shown) > recentLimit {
		shown = shown[:recentLimit]
	}

	return DashboardData{
		Metrics:      metrics,
		RecentSales:  recent,
		Products:     shown,
		ProductCount: len(products),
		TodayCount:   derived.TodaySalesCount,
		TopProduct:   derived.TopSellingProduct,
		DailyTotals:  dailyTotals(sales),
	}, nil
}

// dailyTotals groups sale line totals by calendar day, ascending.
func dailyTotals(sales []domain.Sale) []DailyTotal {
	byDay := make(map[string]float64)
	for _, sale := range sales {
		byDay[sale.Day()] += sale.Total()
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	totals := make([]DailyTotal, len(days))
	for i, day := range days {
		totals[i] = DailyTotal{Day: day, Total: byDay[day]}
	}
	return totals
}
