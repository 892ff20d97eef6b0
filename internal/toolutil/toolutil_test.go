package toolutil

import "testing"

func TestParseBucketValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1-3", 2},
		{"4-7", 5.5},
		{"8-15", 11.5},
		{"16+", 17},
		{"10+", 11},
		{"5-10 years", 7.5},
		{"12", 12},
		{" 8-15 hours ", 11.5},
		{"", 0},
		{"lots", 0},
	}
	for _, tt := range tests {
		if got := ParseBucketValue(tt.in); got != tt.want {
			t.Errorf("ParseBucketValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormSource(t *testing.T) {
	if got := NormSource(""); got != "resume" {
		t.Errorf("NormSource(\"\") = %q", got)
	}
	if got := NormSource(" Manual "); got != "manual" {
		t.Errorf("NormSource manual = %q", got)
	}
}
