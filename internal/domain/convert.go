package domain

// Unit conversion factors. Provider-native units: NWS grid values are meters,
// Open-Meteo snowfall is centimeters, precipitation is millimeters.
const (
	inchesPerMeter = 39.3700787402
	cmPerInch      = 2.54
	mmPerInch      = 25.4
)

// MetersToInches converts an NWS grid accumulation value to inches,
// clamped at zero.
func MetersToInches(m float64) float64 {
	if m <= 0 {
		return 0
	}
	return m * inchesPerMeter
}

// SnowCmToInches converts an Open-Meteo snowfall_sum value to inches,
// clamped at zero.
func SnowCmToInches(cm float64) float64 {
	if cm <= 0 {
		return 0
	}
	return cm / cmPerInch
}

// MmToInches converts a precipitation depth to inches, clamped at zero.
func MmToInches(mm float64) float64 {
	if mm <= 0 {
		return 0
	}
	return mm / mmPerInch
}

// IceProxyParams tunes the daily ice-accumulation estimate used on the
// daily-forecast tier, where ice is not directly measured.
type IceProxyParams struct {
	// Factor scales precip-inches into ice-inches on qualifying days.
	Factor float64
	// MaxInPerDay caps the daily estimate.
	MaxInPerDay float64
}

// DefaultIceProxyParams returns the operational defaults (0.35 / 0.35).
func DefaultIceProxyParams() IceProxyParams {
	return IceProxyParams{Factor: 0.35, MaxInPerDay: 0.35}
}

// EstimateIceInches derives a single day's ice estimate from precipitation,
// snowfall, and minimum temperature. This is an explicit coarse proxy, not a
// physical ice-accretion model:
//   - above freezing, or no precipitation -> 0
//   - same-day snow >= 1 inch -> 0 (the precipitation is snow-dominated;
//     counting it as ice would double-count)
//   - otherwise precip-inches * Factor, clamped into [0, MaxInPerDay]
func EstimateIceInches(precipMM, snowCM, tminC float64, p IceProxyParams) float64 {
	if tminC > 0 {
		return 0
	}
	if precipMM <= 0 {
		return 0
	}
	if SnowCmToInches(snowCM) >= 1.0 {
		return 0
	}

	ice := MmToInches(precipMM) * p.Factor
	if ice < 0 {
		return 0
	}
	if ice > p.MaxInPerDay {
		return p.MaxInPerDay
	}
	return ice
}
