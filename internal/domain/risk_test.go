package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRisk(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name       string
		snow       float64
		ice        float64
		alerts     bool
		wantLevel  RiskLevel
		wantReason string
	}{
		{
			name:       "alerts floor at warning even with zero accumulation",
			snow:       0,
			ice:        0,
			alerts:     true,
			wantLevel:  RiskWarning,
			wantReason: "Active official alert(s) present",
		},
		{
			name:       "alerts do not escalate past warning",
			snow:       20,
			ice:        1,
			alerts:     true,
			wantLevel:  RiskWarning,
			wantReason: "Active official alert(s) present",
		},
		{
			name:       "snow above critical",
			snow:       8.5,
			ice:        0,
			wantLevel:  RiskCritical,
			wantReason: "Forecast accumulation exceeds critical threshold",
		},
		{
			name:       "ice above critical",
			snow:       0,
			ice:        0.30,
			wantLevel:  RiskCritical,
			wantReason: "Forecast accumulation exceeds critical threshold",
		},
		{
			name:       "snow at warning boundary",
			snow:       4.0,
			ice:        0,
			wantLevel:  RiskWarning,
			wantReason: "Forecast accumulation exceeds warning threshold",
		},
		{
			name:       "ice just above heads-up",
			snow:       0,
			ice:        0.06,
			wantLevel:  RiskHeadsUp,
			wantReason: "Forecast accumulation exceeds heads-up threshold",
		},
		{
			name:       "snow at heads-up boundary",
			snow:       2.0,
			ice:        0,
			wantLevel:  RiskHeadsUp,
			wantReason: "Forecast accumulation exceeds heads-up threshold",
		},
		{
			name:       "all quiet",
			snow:       1.9,
			ice:        0.04,
			wantLevel:  RiskNone,
			wantReason: "No alerts and accumulation below thresholds",
		},
		{
			name:       "negative inputs fall below every threshold",
			snow:       -3,
			ice:        -1,
			wantLevel:  RiskNone,
			wantReason: "No alerts and accumulation below thresholds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, reason := ClassifyRisk(tt.snow, tt.ice, tt.alerts, th)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

// Increasing either accumulation total must never lower the classified level.
func TestClassifyRiskMonotonic(t *testing.T) {
	th := DefaultThresholds()
	snowSteps := []float64{0, 1, 2, 3.9, 4, 7.9, 8, 12}
	iceSteps := []float64{0, 0.04, 0.05, 0.09, 0.10, 0.24, 0.25, 0.5}

	for _, ice := range iceSteps {
		prev := RiskNone
		for _, snow := range snowSteps {
			level, _ := ClassifyRisk(snow, ice, false, th)
			assert.GreaterOrEqual(t, int(level), int(prev),
				"snow=%v ice=%v lowered the level", snow, ice)
			prev = level
		}
	}
	for _, snow := range snowSteps {
		prev := RiskNone
		for _, ice := range iceSteps {
			level, _ := ClassifyRisk(snow, ice, false, th)
			assert.GreaterOrEqual(t, int(level), int(prev),
				"snow=%v ice=%v lowered the level", snow, ice)
			prev = level
		}
	}
}

func TestRiskLevelJSONRoundTrip(t *testing.T) {
	for _, level := range []RiskLevel{RiskNone, RiskHeadsUp, RiskWarning, RiskCritical} {
		data, err := json.Marshal(level)
		require.NoError(t, err)

		var got RiskLevel
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, level, got)
	}

	var bad RiskLevel
	assert.Error(t, json.Unmarshal([]byte(`"SEVERE"`), &bad))
}

func TestConfidenceLabels(t *testing.T) {
	assert.Equal(t, "HIGH", ConfidenceHigh.String())
	assert.Equal(t, "MEDIUM", ConfidenceMedium.String())
	assert.Equal(t, "LOW", ConfidenceLow.String())

	data, err := json.Marshal(ConfidenceMedium)
	require.NoError(t, err)
	assert.Equal(t, `"MEDIUM"`, string(data))

	var c Confidence
	require.NoError(t, json.Unmarshal([]byte(`"HIGH"`), &c))
	assert.Equal(t, ConfidenceHigh, c)
}
