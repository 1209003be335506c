package cmd

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acuaponia/feedsim/sim"
	"github.com/acuaponia/feedsim/sim/trace"
	"github.com/acuaponia/feedsim/sim/units"
)

//go:embed scenarios/tilapia.yaml
var defaultScenarioYAML []byte

// Scenario is the YAML description of a feeder run. Quantities carry their
// units ("15 min", "2.08 g/cm**3") and are converted to base units by
// SimConfig.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Version string         `yaml:"version"`
	Time    TimeSection    `yaml:"time"`
	Fish    FishSection    `yaml:"fish"`
	Feeder  FeederSection  `yaml:"feeder"`
	Control ControlSection `yaml:"control"`
	Trace   string         `yaml:"trace,omitempty"`
}

type TimeSection struct {
	Start   time.Time      `yaml:"start"`
	Step    units.Quantity `yaml:"step"`
	Horizon units.Quantity `yaml:"horizon"`
	Dtsub   units.Quantity `yaml:"dtsub"`
}

type FishSection struct {
	InitialMass     units.Quantity `yaml:"initial_mass"`
	Count           float64        `yaml:"count"`
	Exponent        float64        `yaml:"exponent"`
	ConditionFactor units.Quantity `yaml:"condition_factor"`
	BaseTemp        units.Quantity `yaml:"base_temperature"`
	ThermalUnitBase units.Quantity `yaml:"thermal_unit_base"`
	IdealTemp       units.Quantity `yaml:"ideal_temperature"`
}

type FeederSection struct {
	Ratio        float64          `yaml:"ratio"`
	Schedule     []float64        `yaml:"schedule,omitempty"`
	ScheduleCron string           `yaml:"schedule_cron,omitempty"`
	Nutrients    NutrientsSection `yaml:"nutrients"`
}

type NutrientsSection struct {
	N float64 `yaml:"n"`
	P float64 `yaml:"p"`
	K float64 `yaml:"k"`
}

type ControlSection struct {
	Growth  units.Quantity `yaml:"growth"`
	Starve  units.Quantity `yaml:"starve"`
	Harvest units.Quantity `yaml:"harvest"`
	Stop    units.Quantity `yaml:"stop"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return parseScenario(data)
}

// DefaultScenario returns the built-in tilapia scenario.
func DefaultScenario() *Scenario {
	s, err := parseScenario(defaultScenarioYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded scenario is invalid: %v", err))
	}
	return s
}

func parseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version != "" && s.Version != "1" {
		return nil, fmt.Errorf("unsupported scenario version %q; valid: 1", s.Version)
	}
	return &s, nil
}

// SimConfig converts the scenario to base units, checking every quantity's
// dimension.
func (s *Scenario) SimConfig() (sim.SimConfig, error) {
	var cfg sim.SimConfig
	conv := quantityConverter{}

	cfg.Time = sim.TimeConfig{
		Start:   s.Time.Start,
		Step:    conv.base("time.step", s.Time.Step, units.Time),
		Horizon: conv.base("time.horizon", s.Time.Horizon, units.Time),
		Dtsub:   conv.base("time.dtsub", s.Time.Dtsub, units.Time),
	}
	cfg.Fish = sim.FishParams{
		InitialMass:     conv.base("fish.initial_mass", s.Fish.InitialMass, units.Mass),
		Count:           s.Fish.Count,
		Exponent:        s.Fish.Exponent,
		ConditionFactor: conv.conditionFactor("fish.condition_factor", s.Fish.ConditionFactor, s.Fish.Exponent),
		BaseTemp:        conv.base("fish.base_temperature", s.Fish.BaseTemp, units.Temperature),
		ThermalUnitBase: conv.base("fish.thermal_unit_base", s.Fish.ThermalUnitBase, units.ThermalUnit),
		IdealTemp:       conv.base("fish.ideal_temperature", s.Fish.IdealTemp, units.Temperature),
	}
	cfg.Control = sim.PhaseDurations{
		Growth:  conv.base("control.growth", s.Control.Growth, units.Time),
		Starve:  conv.base("control.starve", s.Control.Starve, units.Time),
		Harvest: conv.base("control.harvest", s.Control.Harvest, units.Time),
		Stop:    conv.base("control.stop", s.Control.Stop, units.Time),
	}
	if conv.err != nil {
		return sim.SimConfig{}, conv.err
	}

	schedule, err := s.Feeder.schedule()
	if err != nil {
		return sim.SimConfig{}, err
	}
	cfg.Feed = sim.FeedParams{Ratio: s.Feeder.Ratio, Schedule: schedule}
	cfg.Nutrients = sim.NutrientFractions{N: s.Feeder.Nutrients.N, P: s.Feeder.Nutrients.P, K: s.Feeder.Nutrients.K}
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevel(s.Trace)}
	return cfg, nil
}

func (f FeederSection) schedule() (sim.FeedSchedule, error) {
	if f.ScheduleCron != "" {
		if len(f.Schedule) > 0 {
			return sim.FeedSchedule{}, fmt.Errorf("feeder: set either schedule or schedule_cron, not both")
		}
		return sim.ParseCronSchedule(f.ScheduleCron)
	}
	return sim.NewFeedSchedule(f.Schedule...)
}

// quantityConverter keeps the first conversion error so SimConfig can
// convert field by field and check once.
type quantityConverter struct {
	err error
}

func (c *quantityConverter) base(field string, q units.Quantity, dim units.Dimension) float64 {
	if c.err != nil {
		return 0
	}
	if q.IsZero() && dim == units.Time {
		// An omitted control phase or duration is zero time.
		return 0
	}
	v, err := q.BaseValue(dim)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func (c *quantityConverter) conditionFactor(field string, q units.Quantity, exponent float64) float64 {
	if c.err != nil {
		return 0
	}
	v, err := q.ConditionFactorBase(exponent)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}
