package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillPercentage(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		currentFill int
		want        float64
	}{
		{"empty", 500, 0, 0},
		{"fifth", 500, 100, 20},
		{"full", 500, 500, 100},
		{"zero capacity", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dumpster{Capacity: tt.capacity, CurrentFill: tt.currentFill}
			assert.Equal(t, tt.want, d.FillPercentage())
		})
	}
}

func TestParseFillLevel(t *testing.T) {
	tests := []struct {
		tag  string
		want FillLevel
	}{
		{"GREEN", FillLow},
		{"green", FillLow},
		{" Green ", FillLow},
		{"ORANGE", FillMedium},
		{"orange", FillMedium},
		{"RED", FillFull},
		{"Red", FillFull},
		{"", FillUnknown},
		{"PURPLE", FillUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFillLevel(tt.tag), "tag %q", tt.tag)
	}
}

func TestFillLevelString(t *testing.T) {
	assert.Equal(t, "Low", FillLow.String())
	assert.Equal(t, "Medium", FillMedium.String())
	assert.Equal(t, "Full", FillFull.String())
	assert.Equal(t, "Unknown", FillUnknown.String())
}

func TestDumpsterWireNames(t *testing.T) {
	id := int64(42)
	d := Dumpster{
		ID:           &id,
		Location:     "Main St",
		PostalCode:   28001,
		Capacity:     500,
		CurrentFill:  100,
		FillLevelTag: "GREEN",
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "address")
	assert.NotContains(t, raw, "location")
	assert.Equal(t, "Main St", raw["address"])
	assert.Equal(t, float64(42), raw["id"])
}

func TestUsageRecordWireNames(t *testing.T) {
	rec := UsageRecord{
		DumpsterID:          7,
		Date:                NewDate(2026, 8, 27),
		EstimatedContainers: 3,
		FillLevelTag:        "ORANGE",
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dumpsterId":7,"date":"2026-08-27","estimatedNumCont":3,"fillLevel":"ORANGE"}`, string(data))
}
