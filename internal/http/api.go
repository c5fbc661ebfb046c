// Package http wires the console's routes: the login surface, the session
// gate and the server-rendered management pages.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sales-console/internal/backend"
	"sales-console/internal/service"
	"sales-console/internal/session"
)

const sessionCookie = "sales_session"

// Handler wires HTTP routes to the console services.
type Handler struct {
	client    *backend.Client
	store     *session.Store
	products  *service.ProductsService
	sales     *service.SalesService
	dashboard *service.DashboardService
	reports   *service.ReportsService
	logger    *logrus.Logger

	cookieSecret []byte
	cookieTTL    time.Duration
}

func NewHandler(
	client *backend.Client,
	store *session.Store,
	products *service.ProductsService,
	sales *service.SalesService,
	dashboard *service.DashboardService,
	reports *service.ReportsService,
	logger *logrus.Logger,
	cookieSecret string,
	cookieTTL time.Duration,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if cookieTTL <= 0 {
		cookieTTL = 8 * time.Hour
	}
	return &Handler{
		client:       client,
		store:        store,
		products:     products,
		sales:        sales,
		dashboard:    dashboard,
		reports:      reports,
		logger:       logger,
		cookieSecret: []byte(cookieSecret),
		cookieTTL:    cookieTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware())
	router.SetHTMLTemplate(pageTemplates())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/register", h.registerPage)
	router.POST("/register", h.register)
	router.POST("/logout", h.logout)

	authed := router.Group("/", h.requireSession())
	{
		authed.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusSeeOther, "/dashboard")
		})
		authed.GET("/dashboard", h.dashboardPage)
		authed.GET("/dashboard/chart", h.dashboardChart)

		authed.GET("/products", h.productsPage)
		authed.POST("/products", h.createProduct)
		authed.GET("/products/:id/edit", h.editProductPage)
		authed.POST("/products/:id", h.updateProduct)
		authed.GET("/products/:id/delete", h.confirmDeleteProduct)
		authed.POST("/products/:id/delete", h.deleteProduct)

		authed.GET("/sales", h.salesPage)
		authed.POST("/sales", h.createSale)
		authed.GET("/sales/:id/edit", h.editSalePage)
		authed.POST("/sales/:id", h.updateSale)
		authed.GET("/sales/:id/delete", h.confirmDeleteSale)
		authed.POST("/sales/:id/delete", h.deleteSale)

		authed.GET("/profile", h.profilePage)
		authed.POST("/profile", h.updateProfile)

		authed.GET("/reports", h.reportsPage)
		authed.POST("/reports/generate", h.generateReport)
		authed.GET("/reports/archived", h.archivedReport)
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// requireSession is the route gate: a binary check on the stored token plus
// the signed browser cookie. The backend token itself is never inspected; an
// expired one surfaces as ErrUnauthorized on the next backend call.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.store.IsAuthenticated() || !h.validSessionCookie(c) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) issueSessionCookie(c *gin.Context, userID int64) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.cookieTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.cookieSecret)
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookie, signed, int(h.cookieTTL.Seconds()), "/", "", false, true)
	return nil
}

func (h *Handler) validSessionCookie(c *gin.Context) bool {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.cookieSecret, nil
	})
	return err == nil && token.Valid
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// dropSession handles a backend auth rejection: clear the session everywhere
// and send the operator back to login. Returns true when it handled err.
func (h *Handler) dropSession(c *gin.Context, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	h.logger.Warn("backend rejected stored token, clearing session")
	if err := h.store.Logout(c.Request.Context()); err != nil {
		h.logger.Warnf("clear session: %v", err)
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
