package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"time"

	"invadmin/internal/core"
	"invadmin/internal/models"
	"invadmin/internal/repositories"
	"invadmin/pkg/rabbitmq"
)

// ProductService handles business logic related to products, including stock
// adjustments and CSV export.
type ProductService struct {
	repo         repositories.ProductRepository
	movementRepo repositories.MovementRepository
	mqClient     *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case stock events are not published.
func NewProductService(repo repositories.ProductRepository, movementRepo repositories.MovementRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:         repo,
		movementRepo: movementRepo,
		mqClient:     mqClient,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. Form validation happens in the
// handler before this is called.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product. A quantity change through the
// edit form leaves the same audit record a manual stock adjustment does.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	if product.Quantity == existing.Quantity {
		return nil
	}

	delta := product.Quantity - existing.Quantity
	movementType := models.MovementIn
	if delta < 0 {
		movementType = models.MovementOut
		delta = -delta
	}
	movement := &models.StockMovement{
		ProductID:    product.ID,
		Quantity:     delta,
		MovementType: movementType,
		Reason:       "Quantity updated via admin/form",
		Reference:    fmt.Sprintf("Stock adjustment - %s", product.ID),
		PerformedBy:  "User",
		Timestamp:    time.Now(),
	}
	if err := s.movementRepo.Create(movement); err != nil {
		return fmt.Errorf("failed to record stock movement for product %s: %w", product.ID, err)
	}
	s.publishMovement(product, movement)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// ListView runs the filter/sort/paginate pipeline over the current product
// snapshot and returns one displayable page.
func (s *ProductService) ListView(params core.ViewParams) (core.ViewResult, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return core.ViewResult{}, err
	}
	return core.View(products, params), nil
}

// AdjustStock applies a stock adjustment to a product. Validation failures
// are returned as a field-to-message map so the caller can render them next
// to the form inputs; the error return is reserved for lookup and persistence
// failures. The persisted quantity is exactly the calculator's preview value.
func (s *ProductService) AdjustStock(productID, adjustmentType string, quantity int, reason string) (*models.Product, map[string]string, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}

	if fieldErrs := core.ValidateAdjustment(product.Quantity, adjustmentType, quantity, reason); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	product.Quantity = core.PreviewAdjustment(product.Quantity, adjustmentType, quantity)
	if err := s.repo.Update(product); err != nil {
		return nil, nil, fmt.Errorf("failed to adjust stock for product %s: %w", productID, err)
	}

	movementType := models.MovementIn
	if adjustmentType == core.AdjustmentSubtract {
		movementType = models.MovementOut
	}
	movement := &models.StockMovement{
		ProductID:    product.ID,
		Quantity:     quantity,
		MovementType: movementType,
		Reason:       reason,
		Reference:    fmt.Sprintf("Stock adjustment - %s", product.ID),
		PerformedBy:  "User",
		Timestamp:    time.Now(),
	}
	if err := s.movementRepo.Create(movement); err != nil {
		return nil, nil, fmt.Errorf("failed to record stock movement for product %s: %w", productID, err)
	}

	s.publishMovement(product, movement)

	return product, nil, nil
}

// publishMovement emits a stock movement event. Publication is best-effort;
// a broker failure must not fail the adjustment that already persisted.
func (s *ProductService) publishMovement(product *models.Product, movement *models.StockMovement) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping stock event publication.")
		return
	}

	event := map[string]interface{}{
		"productID":    product.ID,
		"sku":          product.SKU,
		"movementType": movement.MovementType,
		"quantity":     movement.Quantity,
		"newQuantity":  product.Quantity,
		"lowStock":     product.IsLowStock(),
	}
	if err := s.mqClient.PublishStockMovement(event); err != nil {
		log.Printf("Warning: Failed to publish stock movement event for product %s: %v", product.ID, err)
	} else {
		log.Printf("Successfully published stock movement event for product %s", product.ID)
	}
}

// ExportCSV writes the full product list as CSV. The byte stream is handed to
// the client as an opaque download.
func (s *ProductService) ExportCSV(w io.Writer) error {
	products, err := s.repo.GetAll()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"SKU", "Name", "Description", "Price", "Quantity",
		"Min Stock Level", "Category", "Supplier", "Active",
		"Created At", "Updated At",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range products {
		active := "No"
		if p.IsActive {
			active = "Yes"
		}
		record := []string{
			p.SKU,
			p.Name,
			p.Description,
			p.Price.StringFixed(2),
			fmt.Sprintf("%d", p.Quantity),
			fmt.Sprintf("%d", p.MinStockLevel),
			p.CategoryName,
			p.SupplierName,
			active,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for product %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
