package core

import (
	"fmt"
	"strings"
)

// Adjustment types accepted by the stock adjustment form.
const (
	AdjustmentAdd      = "add"
	AdjustmentSubtract = "subtract"
)

// PreviewAdjustment computes the quantity a product will hold after the
// adjustment is applied. Subtractions floor at zero; stock never goes
// negative. The value shown to the user must match what the backend persists,
// so any change here has to track the adjust_stock endpoint.
func PreviewAdjustment(current int, adjustmentType string, requested int) int {
	if adjustmentType == AdjustmentSubtract {
		if requested > current {
			return 0
		}
		return current - requested
	}
	return current + requested
}

// ValidateAdjustment checks a stock adjustment request against the product's
// current quantity, returning one message per offending field. An empty map
// means the request may be submitted.
func ValidateAdjustment(current int, adjustmentType string, requested int, reason string) map[string]string {
	errs := make(map[string]string)

	if requested <= 0 {
		errs["quantity"] = "Quantity must be greater than 0"
	} else if adjustmentType == AdjustmentSubtract && requested > current {
		errs["quantity"] = fmt.Sprintf("Cannot remove more than current stock (%d)", current)
	}

	if strings.TrimSpace(reason) == "" {
		errs["reason"] = "Reason is required"
	}

	return errs
}
