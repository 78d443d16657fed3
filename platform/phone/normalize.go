// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// NormalizeLocal reduces a phone number to its 10-digit national form.
// Inputs like "+91 98765 43210" or "098765 43210" normalize to "9876543210".
// If parsing fails, it returns the input stripped of spaces and dashes so
// downstream validation can reject it with a clear message.
func NormalizeLocal(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return stripSeparators(trimmed)
	}

	if !phonenumbers.IsValidNumber(number) {
		return stripSeparators(trimmed)
	}

	return strconv.FormatUint(number.GetNationalNumber(), 10)
}

func stripSeparators(value string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(value)
}
