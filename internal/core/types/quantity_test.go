package types

import "testing"

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    int64 // scaled
		wantErr bool
	}{
		{"0", 0, false},
		{"1", 10_000, false},
		{"12.5", 125_000, false},
		{"0.0001", 1, false},
		{"-3.25", -32_500, false},
		{"+7", 70_000, false},
		{"10.12345", 0, true}, // 5 fractional digits
		{"abc", 0, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseQuantity(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.Int64Scaled() != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got.Int64Scaled(), tt.want)
		}
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		in   Quantity
		want string
	}{
		{NewQuantityFromInt64Scaled(0), "0.0000"},
		{NewQuantityFromInt64Scaled(125_000), "12.5000"},
		{NewQuantityFromInt64Scaled(-32_500), "-3.2500"},
		{NewQuantityFromInt64Scaled(1), "0.0001"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestQuantityStringParseRoundTrip(t *testing.T) {
	for _, scaled := range []int64{0, 1, -1, 10_000, 31_415_926, -999_999} {
		q := NewQuantityFromInt64Scaled(scaled)
		parsed, err := ParseQuantity(q.String())
		if err != nil {
			t.Fatalf("parse %q: %v", q.String(), err)
		}
		if parsed != q {
			t.Errorf("round trip %q: got %d, want %d", q.String(), parsed.Int64Scaled(), scaled)
		}
	}
}

func TestSignedArithmetic(t *testing.T) {
	// balance = IN - OUT + ADJUST, with ADJUST added as stored
	in := NewQuantityFromFloat64(10)
	out := NewQuantityFromFloat64(3)
	adjust := NewQuantityFromFloat64(-5)

	balance := in + out.Neg() + adjust
	if balance.Float64() != 2 {
		t.Errorf("balance = %v, want 2", balance.Float64())
	}
}
