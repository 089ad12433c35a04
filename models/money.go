package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a locale-formatted money string to a decimal.
// Brazilian sheets mix "1.234,56", "1234.56" and "R$ 1.234,56"; when a comma
// is present it is the decimal separator and dots are thousands separators.
// Unparseable input normalizes to zero so a bad cell never aborts a batch.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '.' || r == ',' || r == '-':
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return decimal.Zero
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}
