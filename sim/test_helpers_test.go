package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tilapiaFish returns the tilapia growth parameters (Timmons 2010) in base
// units: 100 g of a single fish raised at 301 K.
func tilapiaFish() FishParams {
	return FishParams{
		InitialMass:     100,
		Count:           1,
		Exponent:        3,
		ConditionFactor: 2.08,
		BaseTemp:        291.45,
		ThermalUnitBase: 98.4 * 24,
		IdealTemp:       301,
	}
}

func mustSchedule(t *testing.T, hours ...float64) FeedSchedule {
	t.Helper()
	s, err := NewFeedSchedule(hours...)
	require.NoError(t, err)
	return s
}

func defaultFeedParams(t *testing.T) FeedParams {
	t.Helper()
	return FeedParams{Ratio: 0.02, Schedule: mustSchedule(t, 8, 12, 17)}
}

// elevenDayConfig mirrors the reference scenario: 11 days hourly from
// 2017-01-01 07:00 with 15 minute sub-steps.
func elevenDayConfig(t *testing.T) SimConfig {
	t.Helper()
	return SimConfig{
		Time: TimeConfig{
			Start:   time.Date(2017, time.January, 1, 7, 0, 0, 0, time.UTC),
			Step:    1,
			Horizon: 11 * 24,
			Dtsub:   0.25,
		},
		Fish:      tilapiaFish(),
		Feed:      defaultFeedParams(t),
		Control:   PhaseDurations{Growth: 5 * 24, Starve: 3 * 24, Harvest: 24, Stop: 2 * 24},
		Nutrients: NutrientFractions{N: 0.1, P: 0.1, K: 0.1},
	}
}

// linearCurve returns a tilapia growth curve over n quarter-hour sub-steps.
func linearCurve(t *testing.T, n int) *GrowthCurve {
	t.Helper()
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * 0.25
	}
	c, err := NewGrowthCurve(tilapiaFish(), times)
	require.NoError(t, err)
	return c
}

// fakeDriver is a synthetic Driver serving a fixed window.
type fakeDriver struct {
	window Window
	logs   map[string][][]float64
}

func newFakeDriver(offsets ...float64) *fakeDriver {
	return &fakeDriver{window: Window{Offsets: offsets}, logs: make(map[string][][]float64)}
}

func (d *fakeDriver) Window() Window { return d.window }

func (d *fakeDriver) AppendLog(name string, values []float64) {
	d.logs[name] = append(d.logs[name], values)
}
