// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("output_size", validateOutputSize)
		_ = v.RegisterValidation("trade_date", validateTradeDate)
		_ = v.RegisterValidation("password", validatePassword)
	}
}

func validateOutputSize(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "compact", "full":
		return true
	}
	return false
}

func validateTradeDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validatePassword requires at least one lowercase letter, one uppercase
// letter, one digit, and one symbol.
func validatePassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
