package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelWindows captures one record per global window.
	TraceLevelWindows TraceLevel = "windows"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelWindows: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelWindows
}

// SimulationTrace collects window records during a feeder run.
type SimulationTrace struct {
	Config  TraceConfig
	Windows []WindowRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Windows: make([]WindowRecord, 0),
	}
}

// RecordWindow appends a window record.
func (st *SimulationTrace) RecordWindow(record WindowRecord) {
	st.Windows = append(st.Windows, record)
}
