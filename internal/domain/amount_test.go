package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalCoercion(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `12.5`, 12.5},
		{"integer", `7`, 7},
		{"string", `"19.99"`, 19.99},
		{"string integer", `"3"`, 3},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"garbage", `"abc"`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &a))
			assert.Equal(t, tc.want, a.Float())
		})
	}
}

func TestAmountMarshal(t *testing.T) {
	out, err := json.Marshal(Amount(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(out))
}

func TestSaleIngestsStringNumerics(t *testing.T) {
	raw := `{"id":5,"productId":1,"userId":2,"quantity":"3","unitPrice":"2.50","date":"2026-08-30"}`

	var s Sale
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, 3.0, s.Quantity.Float())
	assert.Equal(t, 2.5, s.UnitPrice.Float())
	assert.Equal(t, 7.5, s.Total())
}

func TestSaleDay(t *testing.T) {
	assert.Equal(t, "2026-08-30", Sale{Date: "2026-08-30"}.Day())
	assert.Equal(t, "arbitrary", Sale{Date: "arbitrary"}.Day())

	rfc := Sale{Date: "2026-08-30T10:30:00Z"}
	assert.Len(t, rfc.Day(), 10)
	assert.Contains(t, rfc.Day(), "2026-08-")
}

func TestMetricsFallbacks(t *testing.T) {
	var m Metrics
	assert.Equal(t, "N/A", m.BestProduct())
	assert.Equal(t, 0.0, m.MonthlyAmount())

	m.SalesByProduct = []ProductTotals{{ProductName: "Pen", TotalQuantity: 4}}
	m.MonthlySales = []MonthlySales{{Month: "2026-08", TotalAmount: 120}}
	assert.Equal(t, "Pen", m.BestProduct())
	assert.Equal(t, 120.0, m.MonthlyAmount())
}
