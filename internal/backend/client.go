// Package backend is the HTTP client for the sales API this console fronts.
// All business logic lives on the other side; this layer only shapes
// requests, replays the stored bearer token and normalizes responses into
// domain types.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"sales-console/internal/domain"
)

// ErrUnauthorized marks a backend rejection of the stored token. Callers
// clear the session and send the operator back to login; the token is never
// inspected or validated console-side.
var ErrUnauthorized = errors.New("backend rejected credentials")

// TokenSource supplies the bearer token to replay on authenticated calls.
// The session store satisfies it.
type TokenSource interface {
	Token() string
}

// Client talks to the sales backend.
type Client struct {
	http   *resty.Client
	tokens TokenSource
}

// New builds a Client against baseURL. tokens may be nil for a client that
// only performs the unauthenticated auth calls (tests do this).
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		tokens: tokens,
	}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	return req
}

// apiError extracts the backend's message shape, mapping auth rejections to
// ErrUnauthorized.
func apiError(res *resty.Response) error {
	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden {
		return ErrUnauthorized
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(res.Bytes(), &body); err == nil {
		if body.Message != "" {
			return fmt.Errorf("backend: %s", body.Message)
		}
		if body.Error != "" {
			return fmt.Errorf("backend: %s", body.Error)
		}
	}
	return fmt.Errorf("backend: unexpected status %d", res.StatusCode())
}

// AuthResponse is the login payload: an opaque bearer token plus the
// authenticated profile.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	if res.IsError() {
		return AuthResponse{}, apiError(res)
	}
	return out, nil
}

// Register creates a new staff account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "email": email, "password": password}).
		Post("/auth/register")
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var out domain.User
	res, err := c.request(ctx).SetResult(&out).Get("/users/profile")
	if err != nil {
		return domain.User{}, fmt.Errorf("get profile: %w", err)
	}
	if res.IsError() {
		return domain.User{}, apiError(res)
	}
	return out, nil
}

// ListUsers fetches the whole user collection.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	res, err := c.request(ctx).SetResult(&out).Get("/users")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if res.IsError() {
		return nil, apiError(res)
	}
	return out, nil
}

// UserUpdate is the profile update payload. Password fields ride through to
// the backend and are never retained.
type UserUpdate struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// UpdateUser patches a user record and returns the updated snapshot.
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (domain.User, error) {
	var out domain.User
	res, err := c.request(ctx).
		SetBody(update).
		SetResult(&out).
		Patch(fmt.Sprintf("/users/%d", id))
	if err != nil {
		return domain.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	if res.IsError() {
		return domain.User{}, apiError(res)
	}
	return out, nil
}

// ProductInput is the create/update payload for products.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProducts fetches the whole product collection.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	res, err := c.request(ctx).SetResult(&out).Get("/products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if res.IsError() {
		return nil, apiError(res)
	}
	return out, nil
}

// CreateProduct creates a product and returns the backend's record.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	var out domain.Product
	res, err := c.request(ctx).SetBody(input).SetResult(&out).Post("/products")
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	if res.IsError() {
		return domain.Product{}, apiError(res)
	}
	return out, nil
}

// UpdateProduct replaces a product and returns the updated record.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (domain.Product, error) {
	var out domain.Product
	res, err := c.request(ctx).
		SetBody(input).
		SetResult(&out).
		Put(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	if res.IsError() {
		return domain.Product{}, apiError(res)
	}
	return out, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	res, err := c.request(ctx).Delete(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// SaleInput is the create/update payload for sales.
type SaleInput struct {
	ProductID int64   `json:"productId"`
	UserID    int64   `json:"userId"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Date      string  `json:"date"`
}

// ListSales fetches the whole sale collection.
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var out []domain.Sale
	res, err := c.request(ctx).SetResult(&out).Get("/sales")
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if res.IsError() {
		return nil, apiError(res)
	}
	return out, nil
}

// CreateSale creates a sale and returns the backend's record.
func (c *Client) CreateSale(ctx context.Context, input SaleInput) (domain.Sale, error) {
	var out domain.Sale
	res, err := c.request(ctx).SetBody(input).SetResult(&out).Post("/sales")
	if err != nil {
		return domain.Sale{}, fmt.Errorf("create sale: %w", err)
	}
	if res.IsError() {
		return domain.Sale{}, apiError(res)
	}
	return out, nil
}

// UpdateSale replaces a sale and returns the updated record.
func (c *Client) UpdateSale(ctx context.Context, id int64, input SaleInput) (domain.Sale, error) {
	var out domain.Sale
	res, err := c.request(ctx).
		SetBody(input).
		SetResult(&out).
		Put(fmt.Sprintf("/sales/%d", id))
	if err != nil {
		return domain.Sale{}, fmt.Errorf("update sale %d: %w", id, err)
	}
	if res.IsError() {
		return domain.Sale{}, apiError(res)
	}
	return out, nil
}

// DeleteSale removes a sale.
func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	res, err := c.request(ctx).Delete(fmt.Sprintf("/sales/%d", id))
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	if res.IsError() {
		return apiError(res)
	}
	return nil
}

// Metrics fetches the backend's aggregate dashboard figures.
func (c *Client) Metrics(ctx context.Context) (domain.Metrics, error) {
	var out domain.Metrics
	res, err := c.request(ctx).SetResult(&out).Get("/sales/metrics")
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("get metrics: %w", err)
	}
	if res.IsError() {
		return domain.Metrics{}, apiError(res)
	}
	return out, nil
}

// GenerateJSONReport asks the backend for a json report and returns its
// nested metrics. Some backend versions wrap the payload in a content field;
// both shapes are accepted.
func (c *Client) GenerateJSONReport(ctx context.Context, req domain.ReportRequest) (domain.Metrics, error) {
	req.Format = domain.ReportFormatJSON
	res, err := c.request(ctx).SetBody(req).Post("/reports/generate")
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("generate report: %w", err)
	}
	if res.IsError() {
		return domain.Metrics{}, apiError(res)
	}

	body := res.Bytes()
	var wrapped struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Content) > 0 {
		body = wrapped.Content
	}

	var metrics domain.Metrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return domain.Metrics{}, fmt.Errorf("decode report: %w", err)
	}
	return metrics, nil
}

// GeneratePDFReport asks the backend for a pdf report and returns the binary
// payload.
func (c *Client) GeneratePDFReport(ctx context.Context, req domain.ReportRequest) ([]byte, error) {
	req.Format = domain.ReportFormatPDF
	res, err := c.request(ctx).SetBody(req).Post("/reports/generate")
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if res.IsError() {
		return nil, apiError(res)
	}
	return res.Bytes(), nil
}
