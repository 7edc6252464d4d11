package domain

import "time"

// SiteResult is the immutable outcome of one site's evaluation. It is the
// sole contract surface consumed by rendering, notification, and the results
// publisher; all of those treat it as read-only.
//
// Invariant: Snow7dIn == DailySnowIn.Sum() and Ice7dIn == DailyIceIn.Sum(),
// to floating tolerance.
type SiteResult struct {
	SiteCode string  `json:"site_code"`
	SiteName string  `json:"site_name"`
	Country  string  `json:"country"`
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Address  string  `json:"address,omitempty"`

	Alerts []AlertItem `json:"alerts"`

	DailySnowIn DailySeries `json:"daily_snow_in"`
	DailyIceIn  DailySeries `json:"daily_ice_in"`
	Snow7dIn    float64     `json:"snow_7d_in"`
	Ice7dIn     float64     `json:"ice_7d_in"`

	RiskLevel  RiskLevel  `json:"risk_level"`
	RiskReason string     `json:"risk_reason"`
	Confidence Confidence `json:"confidence"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// AccumulationScore is the combined 7-day total used to order sites of equal
// risk in summaries (heaviest first).
func (r SiteResult) AccumulationScore() float64 {
	return r.Snow7dIn + r.Ice7dIn
}
