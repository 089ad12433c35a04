package models

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1234.56", 1234.56},
		{"1234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"100,00", 100},
		{"0", 0},
		{"", 0},
		{"sem valor", 0},
		{"12.345.678,90", 12345678.90},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in).InexactFloat64(); got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
