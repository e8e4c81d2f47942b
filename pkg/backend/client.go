// Package backend is a typed client for the inventory REST API. It is what
// the browser-side rendering layer calls to fetch entity snapshots and to
// submit form data; list responses are run through the entity normalizer so
// both the paginated envelope and the bare-array shape decode the same way.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"invadmin/internal/core"
	"invadmin/internal/models"
)

// APIError is a non-2xx response from the data service. Fields carries the
// per-field validation messages from a 400, when present, so forms can render
// them inline.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s %v", e.StatusCode, e.Message, e.Fields)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the inventory data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service rooted at baseURL, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// MovementQuery narrows a stock movement listing.
type MovementQuery struct {
	Limit        int
	Search       string
	MovementType string
	Product      string
}

// AdjustStockRequest is the body of an adjust_stock call.
type AdjustStockRequest struct {
	AdjustmentType string `json:"adjustment_type"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
}

// ListProducts fetches the full product snapshot.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return listEntities[models.Product](ctx, c, "/products/")
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	return listEntities[models.Category](ctx, c, "/categories/")
}

// ListSuppliers fetches all suppliers.
func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return listEntities[models.Supplier](ctx, c, "/suppliers/")
}

// ListStockMovements fetches stock movements, most recent first.
func (c *Client) ListStockMovements(ctx context.Context, query MovementQuery) ([]models.StockMovement, error) {
	params := url.Values{}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.MovementType != "" {
		params.Set("movement_type", query.MovementType)
	}
	if query.Product != "" {
		params.Set("product", query.Product)
	}
	path := "/stock-movements"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return listEntities[models.StockMovement](ctx, c, path)
}

// CreateProduct creates a product and fills it with the server-assigned
// fields.
func (c *Client) CreateProduct(ctx context.Context, product *models.Product) error {
	return c.do(ctx, http.MethodPost, "/products/", product, product)
}

// UpdateProduct updates a product in place.
func (c *Client) UpdateProduct(ctx context.Context, product *models.Product) error {
	return c.do(ctx, http.MethodPut, "/products/"+product.ID, product, product)
}

// DeleteProduct deletes a product by its ID.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// AdjustStock submits a stock adjustment and returns the updated product.
func (c *Client) AdjustStock(ctx context.Context, productID string, req AdjustStockRequest) (*models.Product, error) {
	var resp struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products/"+productID+"/adjust_stock", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// ExportProductsCSV downloads the product list as opaque CSV bytes.
func (c *Client) ExportProductsCSV(ctx context.Context) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/export_csv", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to export products CSV: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV export body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, category *models.Category) error {
	return c.do(ctx, http.MethodPost, "/categories/", category, category)
}

// UpdateCategory updates a category.
func (c *Client) UpdateCategory(ctx context.Context, category *models.Category) error {
	return c.do(ctx, http.MethodPut, "/categories/"+category.ID, category, category)
}

// DeleteCategory deletes a category by its ID.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
}

// CreateSupplier creates a supplier.
func (c *Client) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return c.do(ctx, http.MethodPost, "/suppliers/", supplier, supplier)
}

// UpdateSupplier updates a supplier.
func (c *Client) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return c.do(ctx, http.MethodPut, "/suppliers/"+supplier.ID, supplier, supplier)
}

// DeleteSupplier deletes a supplier by its ID.
func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/suppliers/"+id, nil, nil)
}

// listEntities fetches a list endpoint and normalizes the response, whether
// it arrives as a pagination envelope or a bare array.
func listEntities[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}
	return core.Normalize[T](body)
}

// do sends a JSON request and decodes a 2xx response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// apiError decodes the standard error envelope into an APIError, falling
// back to the raw body as the message.
func apiError(status int, body []byte) error {
	var envelope struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = strings.TrimSpace(string(body))
	}
	return &APIError{
		StatusCode: status,
		Message:    envelope.Message,
		Fields:     envelope.Errors,
	}
}
