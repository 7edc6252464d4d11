// Package domain models per-site severe-weather risk over a rolling 7-day
// horizon.
//
// # Providers
//
// Accumulation forecasts come from two tiers of provider:
//
//	NWS gridpoint time series (US sites): snowfallAmount and iceAccumulation
//	series of {validTime, value} pairs in meters, bucketed here by the UTC
//	calendar date of each interval's start. Highest fidelity -> confidence HIGH.
//
//	Open-Meteo daily forecast (fallback, all sites): snowfall_sum (cm),
//	precipitation_sum (mm), temperature_2m_min (C) over 7 days in UTC.
//	Confidence MEDIUM, or LOW when this fallback itself fails.
//
// Official alerts come from the NWS active-alerts API for US sites, or from a
// per-site Environment Canada (ECCC) Atom bulletin feed for Canadian sites.
// Provider failures never abort an evaluation; they surface as placeholder
// alert items carrying a "fetch failed" marker and a FetchFailure flag.
//
// # Units
//
// All accumulation figures are inches. Conversions:
//
//	meters      * 39.3700787402 -> inches (NWS grid values)
//	snow cm     / 2.54          -> inches (Open-Meteo snowfall_sum)
//	precip mm   / 25.4          -> inches (Open-Meteo precipitation_sum)
//
// # Ice proxy
//
// The Open-Meteo tier has no direct ice measurement. The daily ice figure on
// that tier is a deliberate coarse proxy, NOT a physical ice-accretion model:
// zero unless the day's minimum temperature is at or below 0 C and there is
// positive precipitation; zero when the same day's snowfall is already >= 1
// inch (the precipitation is then assumed snow-dominated); otherwise
// precip-inches * factor, capped per day. See [EstimateIceInches].
//
// # Risk tiers
//
// NONE < HEADSUP < WARNING < CRITICAL. Any real (non-placeholder) active alert
// floors the tier at WARNING regardless of accumulation; alerts alone never
// escalate to CRITICAL. Without alerts, 7-day totals are matched against the
// configured thresholds in descending severity, first match wins.
package domain
