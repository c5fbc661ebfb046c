// Package query implements the console-side filter and aggregation layer.
// Every figure is recomputed synchronously from the full in-memory record set
// on each render; there is no memoization and no indexing, the lists are one
// fetch's worth of data.
package query

import (
	"strconv"
	"strings"
	"time"

	"sales-console/internal/domain"
)

// UnknownName is shown when a sale references a product or user that is not
// present in the loaded lists.
const UnknownName = "Desconocido"

// Filters is the criteria set applied to a sales list. Zero values mean
// "not set": an empty SearchTerm matches everything, ProductID 0 disables the
// product filter and an empty Date disables the day filter.
type Filters struct {
	SearchTerm string
	ProductID  int64
	Date       string
}

// Derived is the result of applying Filters to a sales list.
type Derived struct {
	// Filtered is the subsequence of sales matching all set criteria.
	Filtered []domain.Sale
	// SalesTotal sums quantity times unit price over Filtered.
	SalesTotal float64
	// TodaySalesCount counts sales (unfiltered) dated on the reference day.
	TodaySalesCount int
	// TopSellingProduct is the product with the highest summed quantity
	// across all sales, first in list order on ties, "N/A" when either list
	// is empty.
	TopSellingProduct string
}

// DeriveSales filters sales and computes the aggregate figures. The filter is
// conjunctive: the free-text term must match the sale's product name, user
// name or id-as-string (case-insensitive substring), and the product and day
// criteria must match exactly when set. Aggregates other than SalesTotal are
// computed over the unfiltered list. now supplies the reference day for
// TodaySalesCount.
func DeriveSales(sales []domain.Sale, products []domain.Product, users []domain.User, f Filters, now time.Time) Derived {
	d := Derived{
		Filtered:          make([]domain.Sale, 0, len(sales)),
		TopSellingProduct: topSellingProduct(sales, products),
	}

	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	today := now.Local().Format("2006-01-02")

	for _, sale := range sales {
		if sale.Day() == today {
			d.TodaySalesCount++
		}

		if !matchesTerm(sale, products, users, term) {
			continue
		}
		if f.ProductID != 0 && sale.ProductID != f.ProductID {
			continue
		}
		if f.Date != "" && sale.Day() != f.Date {
			continue
		}

		d.Filtered = append(d.Filtered, sale)
		d.SalesTotal += sale.Total()
	}

	return d
}

func matchesTerm(sale domain.Sale, products []domain.Product, users []domain.User, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(ProductName(products, sale.ProductID)), term) {
		return true
	}
	if strings.Contains(strings.ToLower(UserName(users, sale.UserID)), term) {
		return true
	}
	return strings.Contains(strconv.FormatInt(sale.ID, 10), term)
}

func topSellingProduct(sales []domain.Sale, products []domain.Product) string {
	if len(sales) == 0 || len(products) == 0 {
		return "N/A"
	}

	totals := make(map[int64]float64, len(products))
	for _, sale := range sales {
		totals[sale.ProductID] += sale.Quantity.Float()
	}

	best := "N/A"
	bestQty := -1.0
	for _, p := range products {
		if qty := totals[p.ID]; qty > bestQty {
			best = p.Name
			bestQty = qty
		}
	}
	return best
}

// ProductName resolves a product id against the loaded list, UnknownName when
// absent.
func ProductName(products []domain.Product, id int64) string {
	for _, p := range products {
		if p.ID == id {
			return p.Name
		}
	}
	return UnknownName
}

// UserName resolves a user id against the loaded list, UnknownName when
// absent.
func UserName(users []domain.User, id int64) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return UnknownName
}

// FilterProducts returns the products whose name, description or id-as-string
// contains term, case-insensitive. An empty term returns the list unchanged.
func FilterProducts(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strconv.FormatInt(p.ID, 10), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
