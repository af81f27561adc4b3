package history

import "time"

const SchemaVersion = 1

// Snapshot is one analysis run reduced to its headline numbers, keyed
// by project and run ID.
type Snapshot struct {
	SchemaVersion   int       `json:"schema_version"`
	RunID           string    `json:"run_id"`
	ProjectKey      string    `json:"project_key"`
	Timestamp       time.Time `json:"timestamp"`
	FileCount       int       `json:"file_count"`
	HeaderCount     int       `json:"header_count"`
	SourceCount     int       `json:"source_count"`
	LineCount       int       `json:"line_count"`
	ModuleCount     int       `json:"module_count"`
	EdgeCount       int       `json:"edge_count"`
	CycleCount      int       `json:"cycle_count"`
	UnresolvedCount int       `json:"unresolved_count"`
	FunctionCount   int       `json:"function_count"`
	CallEdgeCount   int       `json:"call_edge_count"`
	StructCount     int       `json:"struct_count"`
	AvgComplexity   float64   `json:"avg_complexity"`
	MaxComplexity   int       `json:"max_complexity"`
	AvgFanIn        float64   `json:"avg_fan_in"`
	AvgFanOut       float64   `json:"avg_fan_out"`
	MaxFanIn        int       `json:"max_fan_in"`
	MaxFanOut       int       `json:"max_fan_out"`
}

// TrendPoint is a snapshot annotated with deltas against the previous
// run and moving averages over the window.
type TrendPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	RunID           string    `json:"run_id"`
	FileCount       int       `json:"file_count"`
	LineCount       int       `json:"line_count"`
	ModuleCount     int       `json:"module_count"`
	CycleCount      int       `json:"cycle_count"`
	UnresolvedCount int       `json:"unresolved_count"`
	FunctionCount   int       `json:"function_count"`
	AvgComplexity   float64   `json:"avg_complexity"`
	MaxComplexity   int       `json:"max_complexity"`
	AvgFanIn        float64   `json:"avg_fan_in"`
	AvgFanOut       float64   `json:"avg_fan_out"`

	DeltaFiles      int     `json:"delta_files"`
	DeltaLines      int     `json:"delta_lines"`
	DeltaCycles     int     `json:"delta_cycles"`
	DeltaUnresolved int     `json:"delta_unresolved"`
	DeltaFunctions  int     `json:"delta_functions"`
	DeltaComplexity float64 `json:"delta_complexity"`
	FileGrowthPct   float64 `json:"file_growth_pct"`

	AvgCycles     float64 `json:"avg_cycles"`
	AvgUnresolved float64 `json:"avg_unresolved"`
	WindowHours   float64 `json:"window_hours"`
}

// TrendReport is the time-ordered trend series for one project.
type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
