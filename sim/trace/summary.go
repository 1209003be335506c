package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalWindows       int
	FeedingWindows     int // windows with at least one feed event
	FeedEvents         int
	Restarts           int
	TotalFed           float64
	MaxWindowFed       float64
	StatusDistribution map[string]int // requested status → count of windows
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StatusDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalWindows = len(st.Windows)
	for _, w := range st.Windows {
		summary.StatusDistribution[w.Requested]++
		if w.Requested == "restart" {
			summary.Restarts++
		}
		if w.FeedEvents > 0 {
			summary.FeedingWindows++
		}
		summary.FeedEvents += w.FeedEvents
		summary.TotalFed += w.Fed
		if w.Fed > summary.MaxWindowFed {
			summary.MaxWindowFed = w.Fed
		}
	}

	return summary
}
