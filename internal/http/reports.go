package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"sales-console/internal/domain"
	"sales-console/internal/service"
	"sales-console/internal/storage"
)

// metricsPreview is a Metrics snapshot prepared for the template.
type metricsPreview struct {
	TotalSales   string
	ProductsSold int
	Rows         []productTotalRow
}

type productTotalRow struct {
	Product  string
	Quantity string
	Amount   string
}

func previewOf(m domain.Metrics) metricsPreview {
	p := metricsPreview{
		TotalSales:   money(m.TotalSales.Float()),
		ProductsSold: len(m.SalesByProduct),
		Rows:         make([]productTotalRow, len(m.SalesByProduct)),
	}
	for i, row := range m.SalesByProduct {
		name := row.ProductName
		if name == "" {
			name = "Desconocido"
		}
		p.Rows[i] = productTotalRow{
			Product:  name,
			Quantity: fmt.Sprintf("%g", row.TotalQuantity.Float()),
			Amount:   money(row.TotalAmount.Float()),
		}
	}
	return p
}

func (h *Handler) reportsView(c *gin.Context, products []domain.Product, preview *metricsPreview, archived []storage.ObjectInfo, extra gin.H) {
	data := gin.H{
		"Products": products,
		"Archived": archived,
	}
	if preview != nil {
		data["Preview"] = *preview
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(http.StatusOK, "reports.html", data)
}

func (h *Handler) reportsPage(c *gin.Context) {
	var (
		products []domain.Product
		metrics  domain.Metrics
	)

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		products, err = h.client.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = h.client.Metrics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("load reports page: %v", err)
		h.reportsView(c, nil, nil, nil, gin.H{"Error": "Error al cargar datos iniciales"})
		return
	}

	archived, err := h.reports.ListArchived(c.Request.Context())
	if err != nil {
		h.logger.Warnf("list archived reports: %v", err)
	}

	preview := previewOf(metrics)
	h.reportsView(c, products, &preview, archived, nil)
}

type reportForm struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	ProductID int64  `form:"productId"`
	Format    string `form:"format"`
}

func (h *Handler) generateReport(c *gin.Context) {
	var form reportForm
	_ = c.ShouldBind(&form)

	format := domain.ReportFormatJSON
	if form.Format == string(domain.ReportFormatPDF) {
		format = domain.ReportFormatPDF
	}

	req := domain.ReportRequest{
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		ProductID: form.ProductID,
		Format:    format,
	}

	result, err := h.reports.Generate(c.Request.Context(), req)
	if err != nil {
		if h.dropSession(c, err) {
			return
		}

		products, _ := h.client.ListProducts(c.Request.Context())
		msg := "Error al generar el informe"
		if errors.Is(err, service.ErrMissingDateRange) {
			msg = "Debes seleccionar un rango de fechas"
		} else {
			h.logger.Warnf("generate report: %v", err)
		}
		h.reportsView(c, products, nil, nil, gin.H{
			"Error":     msg,
			"StartDate": form.StartDate,
			"EndDate":   form.EndDate,
		})
		return
	}

	if result.PDF != nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		c.Data(http.StatusOK, "application/pdf", result.PDF)
		return
	}

	products, err := h.client.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Warnf("list products after report: %v", err)
	}
	archived, err := h.reports.ListArchived(c.Request.Context())
	if err != nil {
		h.logger.Warnf("list archived reports: %v", err)
	}

	preview := previewOf(*result.Metrics)
	h.reportsView(c, products, &preview, archived, gin.H{
		"StartDate": form.StartDate,
		"EndDate":   form.EndDate,
	})
}

func (h *Handler) archivedReport(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.Redirect(http.StatusSeeOther, "/reports")
		return
	}
	url, err := h.reports.ArchivedURL(c.Request.Context(), key)
	if err != nil {
		h.logger.Warnf("presign archived report: %v", err)
		c.Redirect(http.StatusSeeOther, "/reports")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
