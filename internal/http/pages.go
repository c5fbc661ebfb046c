package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sales-console/internal/backend"
	"sales-console/internal/domain"
	"sales-console/internal/query"
)

// saleRow is a sale prepared for the table: names resolved, numbers
// formatted, total derived.
type saleRow struct {
	ID        int64
	Product   string
	User      string
	Quantity  string
	UnitPrice string
	Total     string
	Date      string
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func saleRows(sales []domain.Sale, products []domain.Product, users []domain.User) []saleRow {
	rows := make([]saleRow, len(sales))
	for i, s := range sales {
		product := query.ProductName(products, s.ProductID)
		if s.Product != nil && s.Product.Name != "" {
			product = s.Product.Name
		}
		user := query.UserName(users, s.UserID)
		if s.User != nil && s.User.Name != "" {
			user = s.User.Name
		}
		rows[i] = saleRow{
			ID:        s.ID,
			Product:   product,
			User:      user,
			Quantity:  fmt.Sprintf("%g", s.Quantity.Float()),
			UnitPrice: money(s.UnitPrice.Float()),
			Total:     money(s.Total()),
			Date:      s.Day(),
		}
	}
	return rows
}

func (h *Handler) dashboardPage(c *gin.Context) {
	data, err := h.dashboard.Load(c.Request.Context())
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		c.HTML(http.StatusOK, "dashboard.html", gin.H{"Error": "Error al cargar los datos del dashboard"})
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"TotalSales":    money(data.Metrics.TotalSales.Float()),
		"ProductCount":  data.ProductCount,
		"MonthlyAmount": money(data.Metrics.MonthlyAmount()),
		"BestProduct":   data.Metrics.BestProduct(),
		"TodayCount":    data.TodayCount,
		"TopProduct":    data.TopProduct,
		"RecentSales":   saleRows(data.RecentSales, data.Products, nil),
		"Products":      data.Products,
		"HasChart":      len(data.DailyTotals) > 0,
	})
}

// productsView renders the products page from the service snapshot.
func (h *Handler) productsView(c *gin.Context, errMsg string) {
	term := c.Query("q")
	data := gin.H{
		"Products": h.products.Products(term),
		"Search":   term,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	c.HTML(http.StatusOK, "products.html", data)
}

func (h *Handler) productsPage(c *gin.Context) {
	if err := h.products.Refresh(c.Request.Context()); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.productsView(c, "Error al cargar los productos")
		return
	}
	h.productsView(c, "")
}

type productForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

func (f productForm) validate() map[string]string {
	errs := map[string]string{}
	if len(f.Name) < 2 {
		errs["name"] = "El nombre debe tener al menos 2 caracteres"
	}
	return errs
}

func (h *Handler) createProduct(c *gin.Context) {
	var form productForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "products.html", gin.H{
			"Products":    h.products.Products(""),
			"FieldErrors": errs,
			"FormName":    form.Name,
			"FormDesc":    form.Description,
		})
		return
	}

	_, err := h.products.Create(c.Request.Context(), backend.ProductInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("create product: %v", err)
		h.productsView(c, "Error al guardar el producto")
		return
	}
	h.productsView(c, "")
}

func (h *Handler) editProductPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, found := h.products.Find(id)
	if !found {
		if err := h.products.Refresh(c.Request.Context()); err == nil {
			product, found = h.products.Find(id)
		}
	}
	if !found {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	c.HTML(http.StatusOK, "product_form.html", gin.H{"Product": product})
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form productForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "product_form.html", gin.H{
			"Product":     domain.Product{ID: id, Name: form.Name, Description: form.Description},
			"FieldErrors": errs,
		})
		return
	}

	_, err := h.products.Update(c.Request.Context(), id, backend.ProductInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("update product %d: %v", id, err)
		c.HTML(http.StatusOK, "product_form.html", gin.H{
			"Product": domain.Product{ID: id, Name: form.Name, Description: form.Description},
			"Error":   "Error al guardar el producto",
		})
		return
	}
	h.productsView(c, "")
}

func (h *Handler) confirmDeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, found := h.products.Find(id)
	if !found {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	c.HTML(http.StatusOK, "confirm_delete.html", gin.H{
		"Title":   "Eliminar producto",
		"Message": "¿Estás seguro que deseas eliminar este producto? Esta acción no se puede deshacer.",
		"Name":    product.Name,
		"Action":  fmt.Sprintf("/products/%d/delete", id),
		"Cancel":  "/products",
	})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("delete product %d: %v", id, err)
		h.productsView(c, "Error al eliminar el producto")
		return
	}
	h.productsView(c, "")
}

func salesFilters(c *gin.Context) query.Filters {
	f := query.Filters{
		SearchTerm: c.Query("q"),
		Date:       c.Query("date"),
	}
	if raw := c.Query("productId"); raw != "" && raw != "0" {
		var id int64
		if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
			f.ProductID = id
		}
	}
	return f
}

// salesView renders the sales page from the service snapshot, applying the
// request's filter criteria.
func (h *Handler) salesView(c *gin.Context, extra gin.H) {
	f := salesFilters(c)
	derived := h.sales.Derive(f, time.Now())
	products := h.sales.Products()
	users := h.sales.Users()

	data := gin.H{
		"Rows":       saleRows(derived.Filtered, products, users),
		"SalesTotal": money(derived.SalesTotal),
		"TodayCount": derived.TodaySalesCount,
		"TopProduct": derived.TopSellingProduct,
		"Products":   products,
		"Users":      users,
		"Search":     f.SearchTerm,
		"ProductID":  f.ProductID,
		"Date":       f.Date,
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(http.StatusOK, "sales.html", data)
}

func (h *Handler) salesPage(c *gin.Context) {
	if err := h.sales.Refresh(c.Request.Context()); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.salesView(c, gin.H{"Error": "Error al cargar los datos"})
		return
	}
	h.salesView(c, nil)
}

type saleForm struct {
	ProductID int64   `form:"productId"`
	UserID    int64   `form:"userId"`
	Quantity  float64 `form:"quantity"`
	UnitPrice float64 `form:"unitPrice"`
	Date      string  `form:"date"`
}

func (f saleForm) validate() map[string]string {
	errs := map[string]string{}
	if f.ProductID < 1 {
		errs["productId"] = "Debes seleccionar un producto"
	}
	if f.UserID < 1 {
		errs["userId"] = "Debes seleccionar un usuario"
	}
	if f.Quantity < 1 {
		errs["quantity"] = "La cantidad debe ser mayor a 0"
	}
	if f.UnitPrice < 0.01 {
		errs["unitPrice"] = "El precio debe ser mayor a 0"
	}
	if f.Date == "" {
		errs["date"] = "La fecha es requerida"
	}
	return errs
}

func (f saleForm) input() backend.SaleInput {
	return backend.SaleInput{
		ProductID: f.ProductID,
		UserID:    f.UserID,
		Quantity:  f.Quantity,
		UnitPrice: f.UnitPrice,
		Date:      f.Date,
	}
}

func (h *Handler) createSale(c *gin.Context) {
	var form saleForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		h.salesView(c, gin.H{"FieldErrors": errs})
		return
	}

	if _, err := h.sales.Create(c.Request.Context(), form.input()); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("create sale: %v", err)
		h.salesView(c, gin.H{"Error": "Error al guardar la venta"})
		return
	}
	h.salesView(c, nil)
}

func (h *Handler) editSalePage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, found := h.sales.Find(id)
	if !found {
		if err := h.sales.Refresh(c.Request.Context()); err == nil {
			sale, found = h.sales.Find(id)
		}
	}
	if !found {
		c.Redirect(http.StatusSeeOther, "/sales")
		return
	}
	c.HTML(http.StatusOK, "sale_form.html", gin.H{
		"Sale":     sale,
		"Day":      sale.Day(),
		"Products": h.sales.Products(),
		"Users":    h.sales.Users(),
	})
}

func (h *Handler) updateSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form saleForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "sale_form.html", gin.H{
			"Sale":        domain.Sale{ID: id, ProductID: form.ProductID, UserID: form.UserID, Quantity: domain.Amount(form.Quantity), UnitPrice: domain.Amount(form.UnitPrice), Date: form.Date},
			"Day":         form.Date,
			"Products":    h.sales.Products(),
			"Users":       h.sales.Users(),
			"FieldErrors": errs,
		})
		return
	}

	if _, err := h.sales.Update(c.Request.Context(), id, form.input()); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("update sale %d: %v", id, err)
		h.salesView(c, gin.H{"Error": "Error al guardar la venta"})
		return
	}
	h.salesView(c, nil)
}

func (h *Handler) confirmDeleteSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, found := h.sales.Find(id); !found {
		c.Redirect(http.StatusSeeOther, "/sales")
		return
	}
	c.HTML(http.StatusOK, "confirm_delete.html", gin.H{
		"Title":   "Eliminar venta",
		"Message": "¿Estás seguro que deseas eliminar esta venta? Esta acción no se puede deshacer.",
		"Name":    fmt.Sprintf("Venta #%d", id),
		"Action":  fmt.Sprintf("/sales/%d/delete", id),
		"Cancel":  "/sales",
	})
}

func (h *Handler) deleteSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.sales.Delete(c.Request.Context(), id); err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("delete sale %d: %v", id, err)
		h.salesView(c, gin.H{"Error": "Error al eliminar la venta"})
		return
	}
	h.salesView(c, nil)
}
