package utils

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		value  float64
		prefix string
		suffix string
		want   string
	}{
		{0, "", "", "0"},
		{0, "R$ ", "", "R$ 0"},
		{950, "", "", "950"},
		{45_600, "", "", "46K"},
		{2_850_000, "R$ ", "", "R$ 2.9M"},
		{1_000_000, "", "", "1.0M"},
		{1_000, "", "", "1K"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.value, tc.prefix, tc.suffix); got != tc.want {
			t.Fatalf("FormatNumber(%v, %q, %q) = %q, want %q", tc.value, tc.prefix, tc.suffix, got, tc.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	if got := FormatPhone(""); got != "N/A" {
		t.Fatalf("empty phone = %q, want N/A", got)
	}
	// Sheets hand numeric cells over as floats.
	if got := FormatPhone("123.0"); got != "123" {
		t.Fatalf("float-suffixed junk = %q, want 123", got)
	}
	if got := FormatPhone("not a phone"); got != "not a phone" {
		t.Fatalf("unparseable phone should pass through, got %q", got)
	}
}
