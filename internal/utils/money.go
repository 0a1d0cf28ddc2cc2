package utils

import "fmt"

// BasisPointsTotal is the number of basis points representing 100%.
const BasisPointsTotal = 10000

// FormatCents renders an integer minor-currency amount as a fixed
// two-decimal string, e.g. 117000 -> "1170.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// PercentToBasisPoints converts a percentage with up to two decimals into
// integer basis points, rounding half away from zero.
func PercentToBasisPoints(percent float64) int32 {
	scaled := percent * 100
	if scaled < 0 {
		return int32(scaled - 0.5)
	}
	return int32(scaled + 0.5)
}

// BasisPointsToPercent is the inverse of PercentToBasisPoints.
func BasisPointsToPercent(bps int32) float64 {
	return float64(bps) / 100
}

// SplitAmount divides totalCents across the given basis-point shares. Every
// entry but the last receives round(total * share / 10000); the last entry
// receives the exact remainder so the portions always sum to totalCents.
// The remainder assignment is positional and must stay that way: callers
// depend on the last share in iteration order absorbing rounding drift.
func SplitAmount(totalCents int32, shareBps []int32) []int32 {
	if len(shareBps) == 0 {
		return nil
	}

	portions := make([]int32, len(shareBps))
	var assigned int32
	for i, bps := range shareBps[:len(shareBps)-1] {
		p := roundedPortion(totalCents, bps)
		portions[i] = p
		assigned += p
	}
	portions[len(shareBps)-1] = totalCents - assigned
	return portions
}

// roundedPortion computes round(total * bps / 10000) half away from zero
// using integer arithmetic only.
func roundedPortion(totalCents, bps int32) int32 {
	product := int64(totalCents) * int64(bps)
	half := int64(BasisPointsTotal / 2)
	if product < 0 {
		return int32((product - half) / BasisPointsTotal)
	}
	return int32((product + half) / BasisPointsTotal)
}
