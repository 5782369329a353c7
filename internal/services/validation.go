package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names so error details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(validateDonationInput, DonationInput{})
	v.RegisterStructValidation(validateProjectInput, ProjectInput{})
	v.RegisterStructValidation(validateExpenseInput, ExpenseInput{})

	return v
}

func validateDonationInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(DonationInput)
	reportZero(sl, in.Amount, "amount", "Amount")
}

func validateProjectInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(ProjectInput)
	reportZero(sl, in.Budget, "budget", "Budget")
}

func validateExpenseInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(ExpenseInput)
	reportZero(sl, in.Amount, "amount", "Amount")
}

// reportZero flags a present but zero amount. Absent amounts are left to the
// required tag.
func reportZero(sl validator.StructLevel, amount *decimal.Decimal, field, structField string) {
	if amount != nil && amount.IsZero() {
		sl.ReportError(amount, field, structField, "nonzero", "")
	}
}

// validatePayload checks struct tags and converts failures to a ValidationError.
func validatePayload(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.Internal("validate payload", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = describe(fe)
	}
	return &apierrors.ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "nonzero":
		return "must not be zero"
	default:
		return "is invalid"
	}
}
