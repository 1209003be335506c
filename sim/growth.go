// sim/growth.go
package sim

import (
	"math"
)

// FishParams holds the fish initial conditions and species growth
// parameters, already converted to base units (g, cm, hr, K).
type FishParams struct {
	InitialMass     float64 // total initial fish mass (g)
	Count           float64 // initial number of fish
	Exponent        float64 // allometric shape exponent n
	ConditionFactor float64 // K (g/cm^n)
	BaseTemp        float64 // temperature below which length does not grow (K)
	ThermalUnitBase float64 // thermal units per unit length growth (K*hr/cm)
	IdealTemp       float64 // rearing temperature (K)
}

// Validate rejects parameters the allometric relation cannot use.
func (p FishParams) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"initial_mass", p.InitialMass},
		{"count", p.Count},
		{"exponent", p.Exponent},
		{"condition_factor", p.ConditionFactor},
		{"thermal_unit_base", p.ThermalUnitBase},
		{"base_temperature", p.BaseTemp},
		{"ideal_temperature", p.IdealTemp},
	}
	for _, f := range positive {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return configErrorf("fish.%s must be a finite number, got %v", f.name, f.v)
		}
		if f.v <= 0 {
			return configErrorf("fish.%s must be positive, got %v", f.name, f.v)
		}
	}
	if p.IdealTemp < p.BaseTemp {
		return configErrorf("fish.ideal_temperature %v K is below base_temperature %v K", p.IdealTemp, p.BaseTemp)
	}
	return nil
}

// GrowthCurve is the ideal fish length and mass trajectory over the whole
// sub-step timeline. It is computed once and never modified.
type GrowthCurve struct {
	rate   float64 // cm/hr
	length []float64
	mass   []float64
}

// NewGrowthCurve computes the ideal trajectory at every time in t (hours
// since simulation start). Length grows linearly with thermal units above
// BaseTemp and mass follows m = n0 * 0.01 * K * L^n.
func NewGrowthCurve(p FishParams, t []float64) (*GrowthCurve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(t) == 0 {
		return nil, configErrorf("growth curve needs a non-empty timeline")
	}

	rate := (p.IdealTemp - p.BaseTemp) / p.ThermalUnitBase
	l0 := math.Pow(100*p.InitialMass/p.Count/p.ConditionFactor, 1/p.Exponent)

	g := &GrowthCurve{
		rate:   rate,
		length: make([]float64, len(t)),
		mass:   make([]float64, len(t)),
	}
	for i, ti := range t {
		l := l0 + rate*ti
		g.length[i] = l
		g.mass[i] = p.Count * 0.01 * p.ConditionFactor * math.Pow(l, p.Exponent)
	}
	return g, nil
}

// Len returns the number of sub-steps the curve covers.
func (g *GrowthCurve) Len() int { return len(g.mass) }

// LengthRate returns the ideal length growth rate in cm/hr.
func (g *GrowthCurve) LengthRate() float64 { return g.rate }

// MassAt returns the ideal total fish mass (g) at sub-step i.
func (g *GrowthCurve) MassAt(i int) float64 { return g.mass[i] }

// LengthAt returns the ideal fish length (cm) at sub-step i.
func (g *GrowthCurve) LengthAt(i int) float64 { return g.length[i] }

// Mass returns a copy of the full ideal mass trajectory.
func (g *GrowthCurve) Mass() []float64 { return append([]float64(nil), g.mass...) }

// Slice returns the ideal masses at indices lo..hi inclusive.
func (g *GrowthCurve) Slice(lo, hi int) ([]float64, error) {
	if lo < 0 || hi < lo {
		return nil, boundsErrorf("invalid growth curve range [%d, %d]", lo, hi)
	}
	if hi > len(g.mass)-1 {
		return nil, boundsErrorf("index %d past last growth curve index %d", hi, len(g.mass)-1)
	}
	return g.mass[lo : hi+1], nil
}
