package dto

import (
	"fmt"
	"reflect"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// bindingTag is the struct tag gin validates; the CLI reuses it so both entry points share rules.
const bindingTag = "binding"

// RegisterValidators installs the ledger-specific rules on v.
// Decimal fields are exposed to validator as float64 so tags like gte=0 work; this is only a
// coarse input check, the posting engine compares amounts exactly.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValuer, decimal.Decimal{})
	if err := v.RegisterValidation("source_type", validateSourceType); err != nil {
		return fmt.Errorf("failed to register source_type validator: %w", err)
	}
	return nil
}

// NewValidator returns a validator that understands the binding tags used by the DTOs.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(bindingTag)
	if err := RegisterValidators(v); err != nil {
		return nil, err
	}
	return v, nil
}

func decimalValuer(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateSourceType(fl validator.FieldLevel) bool {
	return domain.SourceType(fl.Field().String()).IsValid()
}
