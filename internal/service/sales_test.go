package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-console/internal/backend"
	"sales-console/internal/query"
)

// fakeBackend serves the endpoints the view services hit, with per-path
// failure toggles.
type fakeBackend struct {
	salesBody    string
	productsBody string
	usersBody    string

	failUsers  atomic.Bool
	failDelete atomic.Bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sales", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.salesBody)
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.productsBody)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		if f.failUsers.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, f.usersBody)
	})
	mux.HandleFunc("POST /sales", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":300,"productId":1,"userId":10,"quantity":2,"unitPrice":5,"date":"2026-08-30"}`)
	})
	mux.HandleFunc("PUT /sales/100", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":100,"productId":2,"userId":10,"quantity":9,"unitPrice":1,"date":"2026-08-29"}`)
	})
	mux.HandleFunc("DELETE /sales/100", func(w http.ResponseWriter, r *http.Request) {
		if f.failDelete.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"no se pudo eliminar"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func newSalesFixture(t *testing.T) (*SalesService, *fakeBackend) {
	t.Helper()
	fake := &fakeBackend{
		salesBody:    `[{"id":100,"productId":1,"userId":10,"quantity":3,"unitPrice":2.5,"date":"2026-08-29"},{"id":101,"productId":2,"userId":11,"quantity":1,"unitPrice":10,"date":"2026-08-30"}]`,
		productsBody: `[{"id":1,"name":"Pen"},{"id":2,"name":"Cup"}]`,
		usersBody:    `[{"id":10,"name":"Ana"},{"id":11,"name":"Luis"}]`,
	}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL, 5*time.Second, nil)
	t.Cleanup(func() { client.Close() })

	return NewSalesService(client, nil), fake
}

func TestSalesRefresh(t *testing.T) {
	svc, _ := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Len(t, svc.Sales(), 2)
	assert.Len(t, svc.Products(), 2)
	assert.Len(t, svc.Users(), 2)
}

func TestSalesRefreshAllOrNothing(t *testing.T) {
	svc, fake := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	fake.failUsers.Store(true)
	fake.salesBody = `[]`

	require.Error(t, svc.Refresh(context.Background()))
	assert.Len(t, svc.Sales(), 2, "failed refresh must leave the previous snapshot intact")
	assert.Len(t, svc.Users(), 2)
}

func TestSalesCreateAppends(t *testing.T) {
	svc, _ := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	created, err := svc.Create(context.Background(), backend.SaleInput{ProductID: 1, UserID: 10, Quantity: 2, UnitPrice: 5, Date: "2026-08-30"})
	require.NoError(t, err)
	assert.Equal(t, int64(300), created.ID)

	sales := svc.Sales()
	require.Len(t, sales, 3)
	assert.Equal(t, int64(300), sales[2].ID, "the backend's record lands at the end")
}

func TestSalesUpdateReconcilesByID(t *testing.T) {
	svc, _ := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	updated, err := svc.Update(context.Background(), 100, backend.SaleInput{ProductID: 2, UserID: 10, Quantity: 9, UnitPrice: 1, Date: "2026-08-29"})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.Quantity.Float())

	sales := svc.Sales()
	require.Len(t, sales, 2)
	assert.Equal(t, int64(100), sales[0].ID, "order is preserved on update")
	assert.Equal(t, 9.0, sales[0].Quantity.Float())
}

func TestSalesDelete(t *testing.T) {
	svc, _ := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	require.NoError(t, svc.Delete(context.Background(), 100))

	sales := svc.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, int64(101), sales[0].ID)
}

func TestSalesDeleteFailureKeepsSnapshot(t *testing.T) {
	svc, fake := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	fake.failDelete.Store(true)
	require.Error(t, svc.Delete(context.Background(), 100))

	assert.Len(t, svc.Sales(), 2, "the record is only dropped after the backend confirms")
	_, found := svc.Find(100)
	assert.True(t, found)
}

func TestSalesDerive(t *testing.T) {
	svc, _ := newSalesFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	d := svc.Derive(query.Filters{SearchTerm: "ana"}, now)

	require.Len(t, d.Filtered, 1)
	assert.Equal(t, int64(100), d.Filtered[0].ID)
	assert.InDelta(t, 7.5, d.SalesTotal, 0.001)
	assert.Equal(t, 1, d.TodaySalesCount)
}
