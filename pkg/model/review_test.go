package model

import "testing"

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"whole number", 5.0, 5.0},
		{"rounds down", 4.32, 4.3},
		{"rounds up", 4.46, 4.5},
		{"repeating third", 13.0 / 3.0, 4.3},
		{"exact half step", 4.5, 4.5},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundRating(tt.in); got != tt.want {
				t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
