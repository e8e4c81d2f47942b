package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"invadmin/internal/models"
)

// validate is shared by all form validators. Prices are registered as their
// float value so the numeric tags (required, gt) apply to decimal fields.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// fieldMessages maps field name and failed tag to the message shown next to
// the form input. Anything not listed falls back to a generic message.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Name is required",
		"min":      "Name must be at least 2 characters",
	},
	"sku":      {"required": "SKU is required"},
	"price":    {"required": "Price is required", "gt": "Price must be greater than 0"},
	"category": {"required": "Category is required"},
	"supplier": {"required": "Supplier is required"},
	"email":    {"email": "Enter a valid email address"},
	"reason":   {"required": "Reason is required"},
	"quantity": {"gte": "Quantity cannot be negative"},
}

// ValidateProduct checks a product form submission, returning one message per
// offending field. An empty map means the form may be submitted.
func ValidateProduct(p models.Product) map[string]string {
	return collectFieldErrors(validate.Struct(p))
}

// ValidateCategory checks a category form submission.
func ValidateCategory(c models.Category) map[string]string {
	return collectFieldErrors(validate.Struct(c))
}

// ValidateSupplier checks a supplier form submission. Email is only validated
// when present.
func ValidateSupplier(s models.Supplier) map[string]string {
	return collectFieldErrors(validate.Struct(s))
}

// collectFieldErrors turns validator failures into a field-to-message map.
// All violations are collected; the first failed rule per field wins.
func collectFieldErrors(err error) map[string]string {
	errs := make(map[string]string)
	if err == nil {
		return errs
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["non_field"] = err.Error()
		return errs
	}
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := fieldMessages[field][e.Tag()]; ok {
			errs[field] = msg
		} else {
			errs[field] = fmt.Sprintf("Field '%s' failed on the '%s' rule", field, e.Tag())
		}
	}
	return errs
}
