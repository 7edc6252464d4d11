package domain

import (
	"encoding/json"
	"fmt"
)

// RiskLevel classifies a site's severe-weather exposure. Levels are totally
// ordered: None < HeadsUp < Warning < Critical.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskHeadsUp
	RiskWarning
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskHeadsUp:
		return "HEADSUP"
	case RiskWarning:
		return "WARNING"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "NONE"
	}
}

// MarshalJSON encodes the level as its label so downstream consumers see
// "WARNING", not an integer.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "NONE":
		*r = RiskNone
	case "HEADSUP":
		*r = RiskHeadsUp
	case "WARNING":
		*r = RiskWarning
	case "CRITICAL":
		*r = RiskCritical
	default:
		return fmt.Errorf("unknown risk level %q", s)
	}
	return nil
}

// Confidence indicates which accumulation provider tier actually supplied a
// site's data: HIGH = gridpoint time series, MEDIUM = daily-forecast fallback,
// LOW = all providers failed.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "LOW":
		*c = ConfidenceLow
	case "MEDIUM":
		*c = ConfidenceMedium
	case "HIGH":
		*c = ConfidenceHigh
	default:
		return fmt.Errorf("unknown confidence grade %q", s)
	}
	return nil
}

// Thresholds holds the 7-day accumulation cutoffs, in inches, for each risk
// tier. Constructed once from configuration and passed down; never mutated.
type Thresholds struct {
	SnowHeadsUpIn  float64
	SnowWarningIn  float64
	SnowCriticalIn float64

	IceHeadsUpIn  float64
	IceWarningIn  float64
	IceCriticalIn float64
}

// DefaultThresholds returns the operational defaults: snow 2/4/8 inches,
// ice 0.05/0.10/0.25 inches.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SnowHeadsUpIn:  2.0,
		SnowWarningIn:  4.0,
		SnowCriticalIn: 8.0,
		IceHeadsUpIn:   0.05,
		IceWarningIn:   0.10,
		IceCriticalIn:  0.25,
	}
}

// ClassifyRisk maps 7-day totals and alert presence to a risk tier and a
// human-readable reason. Pure and total: it never fails, and negative or zero
// inputs simply fall below every threshold.
//
// Real active alerts floor the tier at WARNING regardless of accumulation.
// They are never downgraded by low accumulation, and alert presence alone
// never escalates to CRITICAL.
func ClassifyRisk(snow7dIn, ice7dIn float64, hasRealAlerts bool, th Thresholds) (RiskLevel, string) {
	if hasRealAlerts {
		return RiskWarning, "Active official alert(s) present"
	}

	switch {
	case snow7dIn >= th.SnowCriticalIn || ice7dIn >= th.IceCriticalIn:
		return RiskCritical, "Forecast accumulation exceeds critical threshold"
	case snow7dIn >= th.SnowWarningIn || ice7dIn >= th.IceWarningIn:
		return RiskWarning, "Forecast accumulation exceeds warning threshold"
	case snow7dIn >= th.SnowHeadsUpIn || ice7dIn >= th.IceHeadsUpIn:
		return RiskHeadsUp, "Forecast accumulation exceeds heads-up threshold"
	}

	return RiskNone, "No alerts and accumulation below thresholds"
}
