package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invadmin/internal/core"
)

func TestPreviewAdjustment(t *testing.T) {
	assert.Equal(t, 15, core.PreviewAdjustment(10, core.AdjustmentAdd, 5))
	assert.Equal(t, 4, core.PreviewAdjustment(10, core.AdjustmentSubtract, 6))
	assert.Equal(t, 0, core.PreviewAdjustment(10, core.AdjustmentSubtract, 10))
	assert.Equal(t, 0, core.PreviewAdjustment(10, core.AdjustmentSubtract, 15), "subtraction floors at zero")
}

func TestValidateAdjustmentAccepts(t *testing.T) {
	errs := core.ValidateAdjustment(10, core.AdjustmentAdd, 5, "restock delivery")
	assert.Empty(t, errs)

	errs = core.ValidateAdjustment(10, core.AdjustmentSubtract, 10, "damaged goods")
	assert.Empty(t, errs, "removing exactly the current stock is allowed")
}

func TestValidateAdjustmentRejectsBadQuantity(t *testing.T) {
	errs := core.ValidateAdjustment(10, core.AdjustmentAdd, 0, "restock")
	assert.Equal(t, "Quantity must be greater than 0", errs["quantity"])

	errs = core.ValidateAdjustment(10, core.AdjustmentAdd, -2, "restock")
	assert.Contains(t, errs, "quantity")

	errs = core.ValidateAdjustment(10, core.AdjustmentSubtract, 15, "shrinkage")
	assert.Equal(t, "Cannot remove more than current stock (10)", errs["quantity"])
}

func TestValidateAdjustmentRejectsBlankReason(t *testing.T) {
	errs := core.ValidateAdjustment(10, core.AdjustmentAdd, 5, "   ")
	assert.Equal(t, "Reason is required", errs["reason"])
}

func TestValidateAdjustmentCollectsAllViolations(t *testing.T) {
	errs := core.ValidateAdjustment(10, core.AdjustmentSubtract, 0, "")
	assert.Len(t, errs, 2, "all offending fields reported at once")
	assert.Contains(t, errs, "quantity")
	assert.Contains(t, errs, "reason")
}
