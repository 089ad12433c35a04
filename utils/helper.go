package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "BR"

// FormatNumber abbreviates a value for KPI cards: 1_234_567 -> "1.2M",
// 45_600 -> "46K", smaller values as-is without decimals.
func FormatNumber(value float64, prefix, suffix string) string {
	if value == 0 {
		return fmt.Sprintf("%s0%s", prefix, suffix)
	}
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%s%.1fM%s", prefix, value/1_000_000, suffix)
	case value >= 1_000:
		return fmt.Sprintf("%s%.0fK%s", prefix, value/1_000, suffix)
	default:
		return fmt.Sprintf("%s%.0f%s", prefix, value, suffix)
	}
}

// FormatPhone renders a sheet phone cell in the national format. Sheets
// deliver numbers as stringified floats ("5511987654321.0"); anything
// libphonenumber cannot parse is returned as typed.
func FormatPhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	raw = strings.TrimSuffix(raw, ".0")

	p, err := libphonenumber.Parse(raw, CountryCode)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return raw
	}
	return libphonenumber.Format(p, libphonenumber.NATIONAL)
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
