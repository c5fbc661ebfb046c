package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-console/internal/domain"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(srv.URL, 5*time.Second, tokens)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestLogin(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ana@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","user":{"id":1,"name":"Ana","email":"ana@example.com"}}`))
	}), nil)

	out, err := client.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.AccessToken)
	assert.Equal(t, "Ana", out.User.Name)
}

func TestLoginRejected(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}), nil)

	_, err := client.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthTokenReplay(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}), staticToken("tok-1"))

	_, err := client.ListProducts(context.Background())
	require.NoError(t, err)
}

func TestListSalesCoercesStringNumerics(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"productId":2,"userId":3,"quantity":"4","unitPrice":"2.5","date":"2026-08-30"}]`))
	}), nil)

	sales, err := client.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 4.0, sales[0].Quantity.Float())
	assert.Equal(t, 10.0, sales[0].Total())
}

func TestForbiddenMapsToUnauthorized(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}), staticToken("stale"))

	_, err := client.ListSales(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBackendErrorMessage(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"producto duplicado"}`))
	}), nil)

	_, err := client.CreateProduct(context.Background(), ProductInput{Name: "Pen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producto duplicado")
}

func TestGenerateJSONReportUnwrapsContent(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, domain.ReportFormatJSON, req.Format)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":{"totalSales":"120.5","salesByProduct":[{"productId":1,"productName":"Pen","totalQuantity":7,"totalAmount":120.5}]}}`))
	}), staticToken("tok-1"))

	metrics, err := client.GenerateJSONReport(context.Background(), domain.ReportRequest{StartDate: "2026-08-01", EndDate: "2026-08-30"})
	require.NoError(t, err)
	assert.Equal(t, 120.5, metrics.TotalSales.Float())
	assert.Equal(t, "Pen", metrics.BestProduct())
}

func TestGenerateJSONReportFlatBody(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalSales":42,"salesByProduct":[]}`))
	}), nil)

	metrics, err := client.GenerateJSONReport(context.Background(), domain.ReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 42.0, metrics.TotalSales.Float())
}

func TestGeneratePDFReport(t *testing.T) {
	payload := []byte("%PDF-1.4 fake")
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, domain.ReportFormatPDF, req.Format)

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}), staticToken("tok-1"))

	out, err := client.GeneratePDFReport(context.Background(), domain.ReportRequest{StartDate: "2026-08-01", EndDate: "2026-08-30"})
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}
