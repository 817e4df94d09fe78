package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures gin's validator for the CRM request DTOs:
//   - errors name fields by their json (or form) tag
//   - decimal.Decimal fields accept numeric tags such as gte=0
//   - "currency" checks ISO 4217 codes, "country" ISO 3166-1 alpha-2 codes
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, err := valueobject.NormalizeCurrency(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		_, err := valueobject.NormalizeCountryCode(fl.Field().String())
		return err == nil
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// decimalValue exposes a decimal to numeric validation tags
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// FormatValidationErrors turns a binding error into the 400 envelope.
// Errors that are not validator errors (malformed JSON) carry no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewErrorResponse(dto.ErrCodeBadRequest, "Malformed request body", requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fieldPath(e), Message: validationMessage(e)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// fieldPath drops the top-level struct name: "ContactRequest.billing_address.zip" -> "billing_address.zip"
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	p := e.Param()
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL format"
	case "uuid":
		return "Invalid UUID format"
	case "currency":
		return "Must be an ISO 4217 currency code"
	case "country":
		return "Must be a two-letter country code"
	case "oneof":
		return "Must be one of: " + p
	case "len":
		return "Must be exactly " + p + " characters"
	case "min", "max":
		return sizeMessage(e.Tag(), e.Kind(), p)
	case "gt":
		return "Must be greater than " + p
	case "gte":
		return "Must be greater than or equal to " + p
	case "lte":
		return "Must be less than or equal to " + p
	}
	return "Invalid value"
}

func sizeMessage(tag string, kind reflect.Kind, p string) string {
	bound := "at least "
	if tag == "max" {
		bound = "at most "
	}
	switch kind {
	case reflect.String:
		return "Must be " + bound + p + " characters"
	case reflect.Slice:
		return "Must contain " + bound + p + " items"
	}
	return "Must be " + bound + p
}
