package core

import (
	"sort"
	"strings"

	"invadmin/internal/models"
)

// DefaultPageSize is the product list's page size unless overridden.
const DefaultPageSize = 10

// Sort directions accepted by ViewParams.SortDirection.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ViewParams are the user-controlled inputs to the product list pipeline.
// The rendering layer owns these as its page state and passes them in whole
// on every change; the pipeline itself keeps nothing between calls.
type ViewParams struct {
	SearchTerm    string
	SortField     string
	SortDirection string
	Page          int
	PageSize      int
}

// ViewResult is one displayable page of the filtered and sorted collection.
type ViewResult struct {
	Items      []models.Product `json:"results"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	TotalCount int              `json:"count"`
}

// View filters, sorts and paginates a product snapshot. The snapshot is never
// mutated: sorting works on a copy, so callers can safely alias the input
// across calls.
func View(products []models.Product, params ViewParams) ViewResult {
	filtered := filterProducts(products, params.SearchTerm)

	sorted := make([]models.Product, len(filtered))
	copy(sorted, filtered)
	if params.SortField != "" {
		desc := params.SortDirection == SortDesc
		sort.SliceStable(sorted, func(i, j int) bool {
			cmp := compareProducts(sorted[i], sorted[j], params.SortField)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalCount := len(sorted)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return ViewResult{
		Items:      sorted[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
}

// filterProducts keeps products whose name, SKU, category name or supplier
// name contains the search term, case-insensitively. An empty term matches
// everything.
func filterProducts(products []models.Product, term string) []models.Product {
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	var matched []models.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.SKU), needle) ||
			strings.Contains(strings.ToLower(p.CategoryName), needle) ||
			strings.Contains(strings.ToLower(p.SupplierName), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// compareProducts orders two products by the given field: numerically for
// numeric fields, case-insensitively for strings. An unknown field compares
// equal everywhere, which leaves the original order intact under stable sort.
func compareProducts(a, b models.Product, field string) int {
	switch field {
	case "price":
		return a.Price.Cmp(b.Price)
	case "quantity":
		return compareInts(a.Quantity, b.Quantity)
	case "min_stock_level":
		return compareInts(a.MinStockLevel, b.MinStockLevel)
	case "name":
		return compareFold(a.Name, b.Name)
	case "sku":
		return compareFold(a.SKU, b.SKU)
	case "category_name":
		return compareFold(a.CategoryName, b.CategoryName)
	case "supplier_name":
		return compareFold(a.SupplierName, b.SupplierName)
	default:
		return 0
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
