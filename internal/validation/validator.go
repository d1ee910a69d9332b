// Package validation implements the service.Validator contract with
// go-playground/validator. Tag rules cover what tags can express; the name
// length (measured after trimming) and the decimal price constraints are
// enforced as struct-level rules.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog-service/internal/service"
)

// messages maps field.tag to the user-facing validation message.
var messages = map[string]string{
	"name.required":     "name is required",
	"name.length":       "name must be between 3 and 100 characters",
	"description.max":   "description must be at most 500 characters",
	"price.positive":    "price must be greater than zero",
	"price.scale":       "price must have at most 2 decimal places",
	"price.precision":   "price must have at most 16 digits in total",
	"stockQuantity.gte": "stock cannot be negative",
}

// ProductValidator validates ProductInput payloads.
type ProductValidator struct {
	validate *validator.Validate
}

// NewProductValidator builds a validator with the product rule set.
func NewProductValidator() *ProductValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(productInputRules, service.ProductInput{})
	return &ProductValidator{validate: v}
}

// Validate returns one finding per violated rule, in rule order. A nil return
// means the input is valid.
func (pv *ProductValidator) Validate(input service.ProductInput) []service.FieldError {
	err := pv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []service.FieldError{{Field: "input", Message: "input could not be validated"}}
	}

	findings := make([]service.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		message, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			message = fe.Field() + " is invalid"
		}
		findings = append(findings, service.FieldError{Field: fe.Field(), Message: message})
	}
	return findings
}

func productInputRules(sl validator.StructLevel) {
	input := sl.Current().Interface().(service.ProductInput)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		sl.ReportError(input.Name, "name", "Name", "required", "")
	} else if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		sl.ReportError(input.Name, "name", "Name", "length", "")
	}

	if !input.Price.IsPositive() {
		sl.ReportError(input.Price, "price", "Price", "positive", "")
	}
	// Trailing zeros carry no precision: 10.000 is two decimal places.
	if !input.Price.Equal(input.Price.Truncate(2)) {
		sl.ReportError(input.Price, "price", "Price", "scale", "")
	}
	if integralDigits(input.Price) > 14 {
		sl.ReportError(input.Price, "price", "Price", "precision", "")
	}
}

// integralDigits counts the digits before the decimal point, which together
// with the 2-digit scale bound caps the total at 16 significant digits.
func integralDigits(d decimal.Decimal) int {
	integral := d.Abs().Truncate(0)
	if integral.IsZero() {
		return 0
	}
	return len(integral.String())
}
