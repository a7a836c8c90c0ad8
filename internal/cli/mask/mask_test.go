package mask

import (
	"strings"
	"testing"
)

func TestCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123.456.789-09 ", "12345678909"},
		{"12345678909", "12345678909"},
		{"123.456.789-0912", "12345678909"},
		{"abc", ""},
		{"", ""},
		{"１２3", "3"}, // full-width digits are not ASCII digits
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CPF(tt.in); got != tt.want {
				t.Errorf("CPF(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDigitsOnlyDigitsAndBounded(t *testing.T) {
	inputs := []string{"(31) 99999-9999", "+55 (31) 99999-9999", "tel: 3199", "  ", "😀1😀2"}
	for _, in := range inputs {
		got := Phone(in)
		if len(got) > PhoneDigits {
			t.Errorf("Phone(%q) = %q exceeds %d digits", in, got, PhoneDigits)
		}
		if strings.IndexFunc(got, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			t.Errorf("Phone(%q) = %q contains non-digits", in, got)
		}
	}
}

func TestFormatCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123", "123"},
		{"1234", "123.4"},
		{"1234567", "123.456.7"},
		{"12345678909", "123.456.789-09"},
		{"123.456.789-09", "123.456.789-09"},
	}

	for _, tt := range tests {
		if got := FormatCPF(tt.in); got != tt.want {
			t.Errorf("FormatCPF(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"3", "(3"},
		{"31", "(31) "},
		{"319999", "(31) 9999"},
		{"3199998888", "(31) 9999-8888"},
		{"31999998888", "(31) 99999-8888"},
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimLicense(t *testing.T) {
	if got := TrimLicense("  CRM-MG 12345 \n"); got != "CRM-MG 12345" {
		t.Errorf("TrimLicense() = %q", got)
	}
}
