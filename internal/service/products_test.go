package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-console/internal/backend"
)

func newProductsFixture(t *testing.T) *ProductsService {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":1,"name":"Pen","description":"Blue ink"},{"id":2,"name":"Cup","description":"Ceramic"}]`)
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":3,"name":"Mug","description":"Big"}`)
	})
	mux.HandleFunc("PUT /products/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":1,"name":"Pencil","description":"Graphite"}`)
	})
	mux.HandleFunc("DELETE /products/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /products/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"producto con ventas"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL, 5*time.Second, nil)
	t.Cleanup(func() { client.Close() })

	return NewProductsService(client, nil)
}

func TestProductsRefreshAndFilter(t *testing.T) {
	svc := newProductsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Len(t, svc.Products(""), 2)

	got := svc.Products("ceramic")
	require.Len(t, got, 1)
	assert.Equal(t, "Cup", got[0].Name)
}

func TestProductsMutationsReconcile(t *testing.T) {
	svc := newProductsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	created, err := svc.Create(context.Background(), backend.ProductInput{Name: "Mug", Description: "Big"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Len(t, svc.Products(""), 3)

	updated, err := svc.Update(context.Background(), 1, backend.ProductInput{Name: "Pencil", Description: "Graphite"})
	require.NoError(t, err)
	assert.Equal(t, "Pencil", updated.Name)

	p, found := svc.Find(1)
	require.True(t, found)
	assert.Equal(t, "Pencil", p.Name)

	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Len(t, svc.Products(""), 2)
	_, found = svc.Find(2)
	assert.False(t, found)
}

func TestProductsDeleteFailureKeepsSnapshot(t *testing.T) {
	svc := newProductsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	require.Error(t, svc.Delete(context.Background(), 1))
	_, found := svc.Find(1)
	assert.True(t, found)
}
