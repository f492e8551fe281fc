package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseBRLDecimal parses a Brazilian-formatted decimal from a spreadsheet cell.
// Strips the "R$" prefix, whitespace and thousands dots, then swaps the decimal
// comma for a dot: "R$ 1.234,56" -> 1234.56, "0,5" -> 0.5. Returns ok=false for
// empty or non-numeric input; callers decide whether that is fatal.
func ParseBRLDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// ParseBRLInteger parses an integer cell, tolerating decimal formatting
// ("2,0" -> 2) by rounding to the nearest integer.
func ParseBRLInteger(s string) (int, bool) {
	value, ok := ParseBRLDecimal(s)
	if !ok {
		return 0, false
	}
	return int(math.Round(value)), true
}

// NormalizeCEP reduces a postal code cell to its digits and formats the
// canonical 8-digit form NNNNN-NNN. Returns ok=false when the cell does not
// hold exactly 8 digits.
func NormalizeCEP(s string) (string, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 8 {
		return "", false
	}
	d := digits.String()
	return d[:5] + "-" + d[5:], true
}

// CEPDigits returns only the digits of a postal code (unmasked form).
func CEPDigits(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
