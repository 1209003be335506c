// Package testutil provides shared test infrastructure for the feeder
// simulator: golden dataset types and assertion helpers used across sim/
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single scenario from the golden dataset.
// Inputs are in base units (g, cm, hr, K).
type GoldenTestCase struct {
	Name            string        `json:"name"`
	Start           string        `json:"start"`
	Step            float64       `json:"step_hr"`
	Horizon         float64       `json:"horizon_hr"`
	Dtsub           float64       `json:"dtsub_hr"`
	InitialMass     float64       `json:"initial_mass_g"`
	Count           float64       `json:"count"`
	Exponent        float64       `json:"exponent"`
	ConditionFactor float64       `json:"condition_factor"`
	BaseTemp        float64       `json:"base_temperature_k"`
	ThermalUnitBase float64       `json:"thermal_unit_base_k_hr_cm"`
	IdealTemp       float64       `json:"ideal_temperature_k"`
	Ratio           float64       `json:"feed_ratio"`
	Schedule        []float64     `json:"schedule"`
	Growth          float64       `json:"growth_hr"`
	Starve          float64       `json:"starve_hr"`
	Harvest         float64       `json:"harvest_hr"`
	Stop            float64       `json:"stop_hr"`
	Metrics         GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected results of a golden scenario.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	SubSteps    int `json:"sub_steps"`
	FeedEvents  int `json:"feed_events"`
	FinalCursor int `json:"final_cursor"`

	// Floating-point metrics
	TotalFed       float64 `json:"total_fed_g"`
	PeakRate       float64 `json:"peak_rate_g_hr"`
	FinalIdealMass float64 `json:"final_ideal_mass_g"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
