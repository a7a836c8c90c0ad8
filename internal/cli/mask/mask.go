// Package mask normalises and formats the masked registration fields
// (CPF and Brazilian phone numbers).
package mask

import (
	"strings"
	"unicode"
)

// Maximum digit counts of the masked fields
const (
	CPFDigits   = 11
	PhoneDigits = 11
)

// OnlyDigits drops every non-digit character of value
func OnlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Digits keeps the digits of value truncated to max characters
func Digits(value string, max int) string {
	d := OnlyDigits(value)
	if max > 0 && len(d) > max {
		d = d[:max]
	}
	return d
}

// CPF normalises a CPF to at most 11 digits
func CPF(value string) string {
	return Digits(value, CPFDigits)
}

// Phone normalises a phone number to at most 11 digits
func Phone(value string) string {
	return Digits(value, PhoneDigits)
}

// FormatCPF renders the digits of value as 000.000.000-00, partially for
// incomplete input
func FormatCPF(value string) string {
	d := CPF(value)
	formatted := d
	if len(d) > 3 {
		formatted = d[:3] + "." + d[3:]
	}
	if len(d) > 6 {
		formatted = formatted[:7] + "." + d[6:]
	}
	if len(d) > 9 {
		formatted = formatted[:11] + "-" + d[9:]
	}
	return formatted
}

// FormatPhone renders the digits of value as (31) 99999-9999 or
// (31) 9999-9999
func FormatPhone(value string) string {
	d := Phone(value)
	if len(d) == 0 {
		return ""
	}
	if len(d) < 2 {
		return "(" + d
	}
	if len(d) <= 6 {
		return "(" + d[:2] + ") " + d[2:]
	}

	prefix := 4
	if len(d) > 10 {
		prefix = 5
	}
	end := 2 + prefix
	if end > len(d) {
		end = len(d)
	}
	formatted := "(" + d[:2] + ") " + d[2:end]
	if rest := d[end:]; rest != "" {
		formatted += "-" + rest
	}
	return formatted
}

// TrimLicense trims a professional license (CRM) number
func TrimLicense(value string) string {
	return strings.TrimFunc(value, unicode.IsSpace)
}
