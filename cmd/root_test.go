package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acuaponia/feedsim/sim"
	"github.com/acuaponia/feedsim/sim/trace"
	"github.com/acuaponia/feedsim/sim/units"
)

// newRunFlags returns a fresh command carrying the run flags, so tests do not
// share Changed state through the package-level runCmd.
func newRunFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	registerRunFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestRunSimulation_DefaultScenario_PrintsMetrics(t *testing.T) {
	// GIVEN the default scenario
	cfg, err := DefaultScenario().SimConfig()
	require.NoError(t, err)
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelWindows}

	// WHEN run
	var buf bytes.Buffer
	require.NoError(t, runSimulation(cfg, &buf, true))

	// THEN the report sections are written
	out := buf.String()
	assert.Contains(t, out, "Feeder Metrics")
	assert.Contains(t, out, "Feed Events          : 15")
	assert.Contains(t, out, "Daily Feed")
	assert.Contains(t, out, "Trace Summary")
	assert.Contains(t, out, "Restarts             : 0")
}

func TestRunSimulation_InvalidConfig_ReturnsError(t *testing.T) {
	cfg, err := DefaultScenario().SimConfig()
	require.NoError(t, err)
	cfg.Feed.Schedule = sim.FeedSchedule{}

	var buf bytes.Buffer
	err = runSimulation(cfg, &buf, false)
	assert.ErrorIs(t, err, sim.ErrConfig)
	assert.Empty(t, buf.String())
}

func TestApplyOverrides_OnlyChangedFlags(t *testing.T) {
	// GIVEN a scenario and a command with only --feed-ratio set
	s := DefaultScenario()
	c := newRunFlags(t, "--feed-ratio", "0.03")

	// WHEN overrides are applied
	require.NoError(t, applyOverrides(c, s))

	// THEN only the ratio changed
	assert.Equal(t, 0.03, s.Feeder.Ratio)
	assert.Equal(t, units.Q(15, "min"), s.Time.Dtsub)
	assert.Equal(t, []float64{8, 12, 17}, s.Feeder.Schedule)
}

func TestApplyOverrides_TimelineAndCron(t *testing.T) {
	s := DefaultScenario()
	c := newRunFlags(t, "--dtsub", "30 min", "--horizon", "5 day", "--schedule-cron", "0 9 * * *")

	require.NoError(t, applyOverrides(c, s))

	assert.Equal(t, units.Q(30, "min"), s.Time.Dtsub)
	assert.Equal(t, units.Q(5, "day"), s.Time.Horizon)
	assert.Equal(t, "0 9 * * *", s.Feeder.ScheduleCron)
	assert.Nil(t, s.Feeder.Schedule)
	cfg, err := s.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, cfg.Feed.Schedule.Hours())
}

func TestApplyOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad dtsub", []string{"--dtsub", "fifteen min"}},
		{"both schedules", []string{"--schedule", "8", "--schedule-cron", "0 8 * * *"}},
		{"bad trace level", []string{"--trace-level", "verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, applyOverrides(newRunFlags(t, tt.args...), DefaultScenario()))
		})
	}
}
