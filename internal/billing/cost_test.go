package billing

import "testing"

func TestFinalCost(t *testing.T) {
	cases := []struct {
		name       string
		base       float64
		multiplier float64
		want       float64
	}{
		{"unit multiplier", 3.9, 1.0, 3.9},
		{"fractional multiplier", 3.9, 1.5, 5.85},
		{"rounds at fourth digit", 3.9, 1.00001, 3.9},
		{"half rounds away from zero", 0.00005, 1.0, 0.0001},
		{"zero multiplier", 3.9, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FinalCost(tc.base, tc.multiplier); got != tc.want {
				t.Fatalf("FinalCost(%v, %v) = %v, want %v", tc.base, tc.multiplier, got, tc.want)
			}
		})
	}
}

func TestImageBaseCost(t *testing.T) {
	if ImageBaseCost != 3.9 {
		t.Fatalf("ImageBaseCost = %v, want 3.9", ImageBaseCost)
	}
}
