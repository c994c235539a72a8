package main

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{"1", 9, 1_000_000_000, false},
		{"1.5", 9, 1_500_000_000, false},
		{"0.000000001", 9, 1, false},
		{"1000", 0, 1000, false},
		{"12.", 2, 1200, false},
		{"0.0000000001", 9, 0, true},
		{"1.5", 0, 0, true},
		{"-1", 9, 0, true},
		{"", 9, 0, true},
		{"abc", 9, 0, true},
		{"1.x", 9, 0, true},
		{"18446744073709551615", 0, 18446744073709551615, false},
		{"18446744074", 9, 0, true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in, tt.decimals)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAmount(%q, %d) error = %v, wantErr %v", tt.in, tt.decimals, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAmount(%q, %d) = %d, want %d", tt.in, tt.decimals, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		units    uint64
		decimals uint8
		want     string
	}{
		{1_500_000_000, 9, "1.500000000"},
		{1, 9, "0.000000001"},
		{0, 9, "0.000000000"},
		{42, 0, "42"},
		{1234, 2, "12.34"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.units, tt.decimals); got != tt.want {
			t.Errorf("formatAmount(%d, %d) = %q, want %q", tt.units, tt.decimals, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"0.000000001", "7.250000000", "1000000.000000000"} {
		units, err := parseAmount(s, 9)
		if err != nil {
			t.Fatalf("parseAmount(%q): %v", s, err)
		}
		if got := formatAmount(units, 9); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}
