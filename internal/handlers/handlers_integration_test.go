package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invadmin/internal/handlers"
	"invadmin/internal/models"
	"invadmin/internal/repositories"
	"invadmin/internal/services"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers and services wired, plus one seeded category and supplier.
func setupApp() (*fiber.App, *models.Category, *models.Supplier, error) {
	// A named in-memory database so every pooled connection sees the same
	// data, unique per call so tests stay isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.Category{}, &models.Supplier{}, &models.Product{}, &models.StockMovement{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	supplierRepo := repositories.NewGORMSupplierRepository(db)
	movementRepo := repositories.NewGORMMovementRepository(db)

	productService := services.NewProductService(productRepo, movementRepo, nil) // nil for RabbitMQ client
	categoryService := services.NewCategoryService(categoryRepo)
	supplierService := services.NewSupplierService(supplierRepo)
	movementService := services.NewMovementService(movementRepo)
	dashboardService := services.NewDashboardService(productRepo, movementRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1)
	handlers.NewSupplierHandler(supplierService).RegisterRoutes(apiV1)
	handlers.NewMovementHandler(movementService).RegisterRoutes(apiV1)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(apiV1)

	category := &models.Category{Name: "Electronics"}
	if err := categoryRepo.Create(category); err != nil {
		return nil, nil, nil, err
	}
	supplier := &models.Supplier{Name: "Acme Supplies", Email: "sales@acme.example"}
	if err := supplierRepo.Create(supplier); err != nil {
		return nil, nil, nil, err
	}

	return app, category, supplier, nil
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createProduct(t *testing.T, app *fiber.App, category *models.Category, supplier *models.Supplier, name, sku, price string, quantity, minStock int) models.Product {
	t.Helper()
	payload := map[string]interface{}{
		"name":            name,
		"sku":             sku,
		"price":           price,
		"quantity":        quantity,
		"min_stock_level": minStock,
		"category":        category.ID,
		"supplier":        supplier.ID,
		"is_active":       true,
	}
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products/", payload), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	return created
}

func TestProductCRUDAndListPipeline(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	createProduct(t, app, category, supplier, "Laptop", "L-1", "1200.00", 10, 2)
	createProduct(t, app, category, supplier, "Mouse", "M-1", "25.00", 50, 10)
	createProduct(t, app, category, supplier, "Keyboard", "K-1", "75.00", 1, 5)

	// Sorted by price descending, two per page.
	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/products/?sort=price&dir=desc&page=1&page_size=2", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Results    []models.Product `json:"results"`
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
		Count      int              `json:"count"`
	}
	decodeBody(t, resp, &page)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, "Laptop", page.Results[0].Name)
	assert.Equal(t, "Keyboard", page.Results[1].Name)
	assert.Equal(t, "Electronics", page.Results[0].CategoryName, "denormalized names filled from associations")

	// Case-insensitive search against the supplier name.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/products/?search=ACME", nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &page)
	assert.Equal(t, 3, page.Count)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/products/?search=mouse", nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &page)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "Mouse", page.Results[0].Name)
}

func TestCreateProductValidation(t *testing.T) {
	app, _, _, err := setupApp()
	assert.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products/", map[string]interface{}{}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "sku")
	assert.Contains(t, body.Errors, "price")
	assert.Contains(t, body.Errors, "category")
	assert.Contains(t, body.Errors, "supplier")
}

func TestAdjustStockFlow(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	product := createProduct(t, app, category, supplier, "Widget", "W-1", "99.99", 10, 5)

	// Valid addition.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products/"+product.ID+"/adjust_stock", map[string]interface{}{
		"adjustment_type": "add",
		"quantity":        5,
		"reason":          "restock delivery",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var adjusted struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	decodeBody(t, resp, &adjusted)
	assert.Equal(t, "Stock adjusted successfully", adjusted.Message)
	assert.Equal(t, 15, adjusted.Product.Quantity)

	// Over-subtraction is rejected with a per-field message.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/products/"+product.ID+"/adjust_stock", map[string]interface{}{
		"adjustment_type": "subtract",
		"quantity":        100,
		"reason":          "shrinkage",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var failed struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &failed)
	assert.Equal(t, "Cannot remove more than current stock (15)", failed.Errors["quantity"])

	// The successful adjustment left an audit record.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/stock-movements?limit=5", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var movements struct {
		Results []models.StockMovement `json:"results"`
		Count   int                    `json:"count"`
	}
	decodeBody(t, resp, &movements)
	assert.Equal(t, 1, movements.Count)
	assert.Equal(t, models.MovementIn, movements.Results[0].MovementType)
	assert.Equal(t, 5, movements.Results[0].Quantity)
	assert.Equal(t, "restock delivery", movements.Results[0].Reason)
	assert.Equal(t, "Widget", movements.Results[0].ProductName)

	// Exact filters narrow the listing.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/stock-movements?movement_type=OUT", nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &movements)
	assert.Equal(t, 0, movements.Count)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/stock-movements?movement_type=IN&product="+product.ID, nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &movements)
	assert.Equal(t, 1, movements.Count)

	// Unknown product.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/products/nope/adjust_stock", map[string]interface{}{
		"adjustment_type": "add",
		"quantity":        1,
		"reason":          "test",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProductQuantityLeavesAuditRecord(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	product := createProduct(t, app, category, supplier, "Widget", "W-1", "99.99", 10, 5)

	payload := map[string]interface{}{
		"name":            product.Name,
		"sku":             product.SKU,
		"price":           "99.99",
		"quantity":        25,
		"min_stock_level": product.MinStockLevel,
		"category":        category.ID,
		"supplier":        supplier.ID,
		"is_active":       true,
	}
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/products/"+product.ID, payload), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var movements struct {
		Results []models.StockMovement `json:"results"`
		Count   int                    `json:"count"`
	}
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/stock-movements", nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &movements)
	assert.Equal(t, 1, movements.Count, "an edit-form quantity change is audited")
	assert.Equal(t, models.MovementIn, movements.Results[0].MovementType)
	assert.Equal(t, 15, movements.Results[0].Quantity)
	assert.Equal(t, "Quantity updated via admin/form", movements.Results[0].Reason)
}

func TestDashboardMetricsEndpoint(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	createProduct(t, app, category, supplier, "Widget", "W-1", "99.99", 10, 5)
	createProduct(t, app, category, supplier, "Cable", "C-1", "5.00", 1, 5)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/dashboard", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var metrics struct {
		ActiveProducts      int              `json:"active_products"`
		TotalInventoryValue string           `json:"total_inventory_value"`
		LowStock            []models.Product `json:"low_stock"`
	}
	decodeBody(t, resp, &metrics)
	assert.Equal(t, 2, metrics.ActiveProducts)
	assert.Equal(t, "1004.90", metrics.TotalInventoryValue)
	assert.Len(t, metrics.LowStock, 1)
	assert.Equal(t, "Cable", metrics.LowStock[0].Name)
}

func TestExportProductsCSV(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	createProduct(t, app, category, supplier, "Widget", "W-1", "99.99", 10, 5)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/products/export_csv", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "products.csv")

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NoError(t, err)
	assert.Contains(t, string(body), "SKU,Name,Description,Price,Quantity")
	assert.Contains(t, string(body), "W-1,Widget,,99.99,10,5,Electronics,Acme Supplies,Yes")
}

func TestCategoryValidationAndCRUD(t *testing.T) {
	app, _, _, err := setupApp()
	assert.NoError(t, err)

	// Single-character names are rejected.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/categories/", map[string]interface{}{"name": "X"}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var failed struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &failed)
	assert.Equal(t, "Name must be at least 2 characters", failed.Errors["name"])

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/categories/", map[string]interface{}{
		"name":        "Office",
		"description": "Office supplies",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Category
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/categories/", nil), -1)
	assert.NoError(t, err)
	var list struct {
		Results []models.Category `json:"results"`
		Count   int               `json:"count"`
	}
	decodeBody(t, resp, &list)
	assert.Equal(t, 2, list.Count, "the seeded category plus the new one")

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/categories/?search=office", nil), -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &list)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Office", list.Results[0].Name)

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/api/v1/categories/"+created.ID, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/api/v1/categories/"+created.ID, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSupplierValidation(t *testing.T) {
	app, _, _, err := setupApp()
	assert.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/suppliers/", map[string]interface{}{
		"name":  "Globex",
		"email": "not-an-email",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var failed struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &failed)
	assert.Equal(t, "Enter a valid email address", failed.Errors["email"])

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/suppliers/", map[string]interface{}{
		"name":           "Globex",
		"contact_person": "H. Simpson",
		"email":          "orders@globex.example",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Search matches the contact person too.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/suppliers/?search=simpson", nil), -1)
	assert.NoError(t, err)
	var list struct {
		Results []models.Supplier `json:"results"`
		Count   int               `json:"count"`
	}
	decodeBody(t, resp, &list)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Globex", list.Results[0].Name)
}

func TestProductPriceSerialization(t *testing.T) {
	app, category, supplier, err := setupApp()
	assert.NoError(t, err)

	created := createProduct(t, app, category, supplier, "Widget", "W-1", "99.99", 10, 5)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("99.99")))
}
