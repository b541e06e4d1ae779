package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures gin's validator: JSON/form tag names in errors,
// a "money" tag for non-negative decimal strings and a "date" tag for YYYY-MM-DD.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("date", validateDate)
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := valueobject.ParseDate(fl.Field().String())
	return err == nil
}

// FormatValidationErrors formats binding errors into a standard response.
// Non-validator errors (malformed JSON) produce an empty detail list.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}
	message := "Request validation failed"
	if len(details) == 0 {
		message = "Malformed request: " + err.Error()
	}
	return dto.NewValidationErrorResponse(message, requestID, details)
}

// HandleValidationError writes a 400 validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid UUID format"
	case "money":
		return "Must be a non-negative decimal amount"
	case "date", "datetime":
		return "Must be a date formatted as YYYY-MM-DD"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	default:
		return "Invalid value"
	}
}
