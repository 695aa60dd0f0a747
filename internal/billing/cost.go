package billing

import "math"

// ImageBaseCost is the vendor's fixed per-image cost in credits. The vendor
// does not report token usage for this path, so the charge is a constant
// scaled by the creator multiplier.
const ImageBaseCost = 3.9

// FinalCost computes the billable amount for one generation, rounded
// half-away-from-zero to four fractional digits. Credits are tracked in
// increments of 0.0001.
func FinalCost(baseCost, multiplier float64) float64 {
	return math.Round(baseCost*multiplier*10000) / 10000
}
