// Summarizes the feed delivered over a run: cumulative fed mass, daily
// totals and the nutrient load carried by the feed.

package sim

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NutrientFractions are the mass fractions of nitrogen, phosphorus and
// potassium in the feed.
type NutrientFractions struct {
	N float64
	P float64
	K float64
}

// Validate rejects fractions outside [0, 1].
func (nf NutrientFractions) Validate() error {
	for name, v := range map[string]float64{"n": nf.N, "p": nf.P, "k": nf.K} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return configErrorf("feeder.nutrients.%s must be a fraction in [0, 1], got %v", name, v)
		}
	}
	return nil
}

// DailyFeed is the feed mass delivered during one simulated day.
type DailyFeed struct {
	Day int
	Fed float64 // g
}

// Metrics aggregates the feed log of a run for final reporting.
type Metrics struct {
	Times      []float64 // sub-step times (hr)
	FeedRate   []float64 // feed mass-flow rate (g/hr)
	Cumulative []float64 // cumulative fed mass (g), rectangular accumulation
	Dtsub      float64   // sub-step duration (hr)
	Nutrients  NutrientFractions

	TotalFed   float64 // g
	FeedEvents int     // sub-steps with non-zero feed
	PeakRate   float64 // g/hr
}

// NewMetrics builds the summary of a feed-rate log sampled at times.
func NewMetrics(times, rate []float64, dtsub float64, nf NutrientFractions) *Metrics {
	m := &Metrics{
		Times:      append([]float64(nil), times...),
		FeedRate:   append([]float64(nil), rate...),
		Cumulative: make([]float64, len(rate)),
		Dtsub:      dtsub,
		Nutrients:  nf,
	}
	if len(rate) == 0 {
		return m
	}
	floats.ScaleTo(m.Cumulative, dtsub, rate)
	floats.CumSum(m.Cumulative, m.Cumulative)
	m.TotalFed = m.Cumulative[len(m.Cumulative)-1]
	m.PeakRate = floats.Max(rate)
	for _, r := range rate {
		if r > 0 {
			m.FeedEvents++
		}
	}
	return m
}

// NutrientLoads returns the N, P and K mass (g) delivered with the feed.
func (m *Metrics) NutrientLoads() (n, p, k float64) {
	return m.TotalFed * m.Nutrients.N, m.TotalFed * m.Nutrients.P, m.TotalFed * m.Nutrients.K
}

// Daily splits the fed mass into 24-hour buckets counted from the
// simulation start. Rates without a matching time are ignored.
func (m *Metrics) Daily() []DailyFeed {
	var days []DailyFeed
	n := min(len(m.Times), len(m.FeedRate))
	for i, r := range m.FeedRate[:n] {
		d := int(math.Floor(m.Times[i]/24 + gridTolerance))
		for len(days) <= d {
			days = append(days, DailyFeed{Day: len(days)})
		}
		days[d].Fed += r * m.Dtsub
	}
	return days
}

// Print writes the aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Feeder Metrics ===")
	fmt.Fprintf(w, "Sub-steps            : %d\n", len(m.FeedRate))
	fmt.Fprintf(w, "Feed Events          : %d\n", m.FeedEvents)
	fmt.Fprintf(w, "Total Feed           : %.2f g\n", m.TotalFed)
	if len(m.FeedRate) > 0 {
		fmt.Fprintf(w, "Peak Feed Rate       : %.2f g/hr\n", m.PeakRate)
		if len(m.Times) > 0 && m.Times[len(m.Times)-1] > 0 {
			days := m.Times[len(m.Times)-1] / 24
			fmt.Fprintf(w, "Average Daily Feed   : %.2f g/day\n", m.TotalFed/days)
		}
	}
	n, p, k := m.NutrientLoads()
	fmt.Fprintf(w, "Nutrient Load (N/P/K): %.3f / %.3f / %.3f g\n", n, p, k)
}

// PrintDaily writes the per-day feed table.
func (m *Metrics) PrintDaily(w io.Writer) {
	fmt.Fprintln(w, "=== Daily Feed ===")
	for _, d := range m.Daily() {
		fmt.Fprintf(w, "Day %3d : %8.2f g\n", d.Day, d.Fed)
	}
}
