package domain

// ForecastDays is the fixed evaluation horizon. Every daily series is exactly
// this long; providers returning fewer days are zero-padded, more are truncated.
const ForecastDays = 7

// DailySeries is an ordered sequence of exactly ForecastDays non-negative
// accumulation values in inches. Index 0 is the earliest forecast day in the
// provider's native day-bucketing (UTC dates).
type DailySeries [ForecastDays]float64

// SeriesFromSlice normalizes a provider-native slice to the fixed horizon:
// zero-padded on the right when short, truncated when long. Negative values
// are clamped to zero.
func SeriesFromSlice(vals []float64) DailySeries {
	var s DailySeries
	for i := 0; i < ForecastDays && i < len(vals); i++ {
		if vals[i] > 0 {
			s[i] = vals[i]
		}
	}
	return s
}

// Sum returns the 7-day total in inches.
func (s DailySeries) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}
