package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/limbo/readtogether/internal/error_values"
	"github.com/limbo/readtogether/pkg/datekey"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
			return datekey.Validate(fl.Field().String()) == nil
		})
		// Ids end up inside cache keys, which are joined with ':'
		validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) > 128 {
				return false
			}
			for _, char := range value {
				if char == ':' || unicode.IsSpace(char) || !unicode.IsPrint(char) {
					return false
				}
			}
			return true
		})
	})
}

// validateRequest runs struct validation and reports the first failed field
// as a ValidationError.
func validateRequest(req any) error {
	InitValidator()
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &errorvalues.ValidationError{
			Field:  toSnake(fe.Field()),
			Value:  fmt.Sprint(fe.Value()),
			Reason: reason(fe),
		}
	}
	return errors.New("validation error: " + err.Error())
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datekey":
		return "must be a YYYY-MM-DD date"
	case "entity_id":
		return "must be a printable id without ':' or spaces"
	case "min", "max":
		return "out of range"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func toSnake(field string) string {
	var b strings.Builder
	for i, char := range field {
		if unicode.IsUpper(char) {
			if i > 0 && !unicode.IsUpper(rune(field[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(char))
			continue
		}
		b.WriteRune(char)
	}
	return b.String()
}
