// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Accepted range for the year of a budget period.
const (
	MinYear = 1900
	MaxYear = 9999
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on an existing validator instance.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("month", validateMonth)
	_ = v.RegisterValidation("year", validateYear)
	_ = v.RegisterValidation("notblank", validateNotBlank)
}

// ValidMonth reports whether m is a calendar month number.
func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}

// ValidYear reports whether y is inside the supported year range.
func ValidYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}

func validateMonth(fl validator.FieldLevel) bool {
	return ValidMonth(int(fl.Field().Int()))
}

func validateYear(fl validator.FieldLevel) bool {
	return ValidYear(int(fl.Field().Int()))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
