package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acuaponia/feedsim/sim/internal/testutil"
	"github.com/acuaponia/feedsim/sim/trace"
)

// TestSimulator_GoldenDataset runs every scenario of testdata/goldendataset.json
// and compares the feed summary.
func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset contains no test cases")
	}

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			start, err := time.Parse(time.RFC3339, tc.Start)
			require.NoError(t, err)
			cfg := SimConfig{
				Time: TimeConfig{Start: start, Step: tc.Step, Horizon: tc.Horizon, Dtsub: tc.Dtsub},
				Fish: FishParams{
					InitialMass:     tc.InitialMass,
					Count:           tc.Count,
					Exponent:        tc.Exponent,
					ConditionFactor: tc.ConditionFactor,
					BaseTemp:        tc.BaseTemp,
					ThermalUnitBase: tc.ThermalUnitBase,
					IdealTemp:       tc.IdealTemp,
				},
				Feed:    FeedParams{Ratio: tc.Ratio, Schedule: mustSchedule(t, tc.Schedule...)},
				Control: PhaseDurations{Growth: tc.Growth, Starve: tc.Starve, Harvest: tc.Harvest, Stop: tc.Stop},
			}

			s, err := NewSimulator(cfg)
			require.NoError(t, err)
			require.NoError(t, s.Run())

			want := tc.Metrics
			assert.Equal(t, want.SubSteps, len(s.Metrics.FeedRate), "sub_steps")
			assert.Equal(t, want.FeedEvents, s.Metrics.FeedEvents, "feed_events")
			assert.Equal(t, want.FinalCursor, s.Feeder.Cursor(), "final_cursor")
			testutil.AssertFloat64Equal(t, "total_fed_g", want.TotalFed, s.Metrics.TotalFed, 1e-9)
			testutil.AssertFloat64Equal(t, "peak_rate_g_hr", want.PeakRate, s.Metrics.PeakRate, 1e-9)
			testutil.AssertFloat64Equal(t, "final_ideal_mass_g", want.FinalIdealMass,
				s.Feeder.Curve().MassAt(s.Feeder.Curve().Len()-1), 1e-9)
		})
	}
}

func TestSimulator_Run_LogAlignedWithTimeline(t *testing.T) {
	s, err := NewSimulator(elevenDayConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Len(t, s.Module.Log(FeedLog), len(s.Grid.SubSim()))
	assert.Equal(t, s.Grid.SubSim(), s.Metrics.Times)
}

func TestSimulator_Run_FeedsOnlyDuringGrowthAtScheduledTimes(t *testing.T) {
	// GIVEN the reference 11 day scenario
	s, err := NewSimulator(elevenDayConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Run())

	// THEN feed only appears before day 5 and only at 08:00, 12:00 and 17:00
	for i, r := range s.Metrics.FeedRate {
		if r == 0 {
			continue
		}
		tHr := s.Metrics.Times[i]
		assert.Less(t, tHr, 120.0, "feed after the growth phase at t=%v", tHr)
		tod := s.Grid.Start.Add(time.Duration(tHr * float64(time.Hour))).Hour()
		assert.Contains(t, []int{8, 12, 17}, tod)
	}
	assert.Equal(t, 15, s.Metrics.FeedEvents)
}

// dailyFeedEvents counts the fed sub-steps of every 24 hour bucket.
func dailyFeedEvents(m *Metrics) []int {
	var days []int
	for i, r := range m.FeedRate {
		d := int(m.Times[i]/24 + gridTolerance)
		for len(days) <= d {
			days = append(days, 0)
		}
		if r > 0 {
			days[d]++
		}
	}
	return days
}

func TestSimulator_Run_StatusBoundaryAtFeedingHour(t *testing.T) {
	tests := []struct {
		name      string
		startHour int
		horizon   float64
		schedule  []float64
		control   PhaseDurations
		wantDays  []int
		wantFed   float64
	}{
		{
			// stop ends and the restarted cycle begins at 08:00
			name:      "restart on a feeding hour",
			startHour: 8,
			horizon:   96,
			schedule:  []float64{8, 12, 17},
			control:   PhaseDurations{Growth: 24, Stop: 24},
			wantDays:  []int{3, 1, 3, 1, 0},
			wantFed:   5.368948779120207,
		},
		{
			// growth ends at 17:00
			name:      "growth to starve on a feeding hour",
			startHour: 8,
			horizon:   48,
			schedule:  []float64{8, 12, 17},
			control:   PhaseDurations{Growth: 9, Starve: 15},
			wantDays:  []int{3, 3, 0},
			wantFed:   4.012481431213851,
		},
		{
			name:      "midnight feeding",
			startHour: 22,
			horizon:   48,
			schedule:  []float64{0, 12},
			control:   PhaseDurations{Growth: 48},
			wantDays:  []int{2, 2, 0},
			wantFed:   4.057904326128722,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a status change or day change that falls on a scheduled feeding
			cfg := elevenDayConfig(t)
			cfg.Time.Start = time.Date(2017, time.January, 1, tt.startHour, 0, 0, 0, time.UTC)
			cfg.Time.Horizon = tt.horizon
			cfg.Feed.Schedule = mustSchedule(t, tt.schedule...)
			cfg.Control = tt.control
			cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelWindows}

			// WHEN run
			s, err := NewSimulator(cfg)
			require.NoError(t, err)
			require.NoError(t, s.Run())

			// THEN the feeding on the boundary is logged exactly once
			assert.Equal(t, tt.wantDays, dailyFeedEvents(s.Metrics))
			testutil.AssertFloat64Equal(t, "total_fed_g", tt.wantFed, s.Metrics.TotalFed, 1e-9)

			// AND the trace agrees with the log
			summary := trace.Summarize(s.Trace)
			assert.Equal(t, s.Metrics.FeedEvents, summary.FeedEvents)
			assert.InDelta(t, s.Metrics.TotalFed, summary.TotalFed, 1e-9)
		})
	}
}

func TestSimulator_Run_TraceRecordsEveryWindow(t *testing.T) {
	cfg := elevenDayConfig(t)
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelWindows}
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Run())

	require.Len(t, s.Trace.Windows, s.Grid.Steps())
	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 120, summary.StatusDistribution["growth"])
	assert.Equal(t, 72, summary.StatusDistribution["starve"])
	assert.Equal(t, s.Metrics.FeedEvents, summary.FeedEvents)
	testutil.AssertFloat64Equal(t, "trace total fed", s.Metrics.TotalFed, summary.TotalFed, 1e-9)

	// Cursor advances by one window of sub-steps while growing and freezes afterwards.
	assert.Equal(t, 4, s.Trace.Windows[0].CursorAfter)
	assert.Equal(t, 480, s.Trace.Windows[119].CursorAfter)
	assert.Equal(t, 480, s.Trace.Windows[263].CursorAfter)
}

func TestSimulator_Run_TraceDisabledByDefault(t *testing.T) {
	s, err := NewSimulator(elevenDayConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Run())
	assert.Empty(t, s.Trace.Windows)
}

func TestSimulator_Run_Twice_ConfigError(t *testing.T) {
	s, err := NewSimulator(elevenDayConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Run())
	assert.True(t, errors.Is(s.Run(), ErrConfig))
}

func TestSimulator_Run_BoundsErrorWrappedInStepError(t *testing.T) {
	// GIVEN a simulator whose feeder curve is shorter than the timeline
	s, err := NewSimulator(elevenDayConfig(t))
	require.NoError(t, err)
	short, err := NewGrowthCurve(tilapiaFish(), []float64{0, 0.25, 0.5, 0.75, 1})
	require.NoError(t, err)
	s.Feeder.curve = short

	// WHEN run
	err = s.Run()

	// THEN the second growth window fails with a bounds error naming the step
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBounds))
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Step)
	assert.Equal(t, StatusGrowth, stepErr.Status)
}

func TestNewSimulator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"zero fish", func(c *SimConfig) { c.Fish.Count = 0 }},
		{"empty schedule", func(c *SimConfig) { c.Feed.Schedule = FeedSchedule{} }},
		{"no start", func(c *SimConfig) { c.Time.Start = time.Time{} }},
		{"misaligned sub-step", func(c *SimConfig) { c.Time.Dtsub = 0.4 }},
		{"empty control cycle", func(c *SimConfig) { c.Control = PhaseDurations{} }},
		{"bad nutrient fraction", func(c *SimConfig) { c.Nutrients.N = 2 }},
		{"bad trace level", func(c *SimConfig) { c.Trace.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := elevenDayConfig(t)
			tt.mutate(&cfg)
			_, err := NewSimulator(cfg)
			assert.True(t, errors.Is(err, ErrConfig), "got %v", err)
		})
	}
}
