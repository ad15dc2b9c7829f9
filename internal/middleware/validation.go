package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tscheck/internal/config"
)

// NewValidator builds the validator used for API request structs. It
// registers the custom "frequency" rule and reports field names from json
// tags so validation errors match the wire format.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("frequency", isFrequency)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isFrequency accepts the analysis frequency modes.
func isFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case config.FrequencyCalendarDay, config.FrequencyBusinessDay, config.FrequencyAuto:
		return true
	}
	return false
}
