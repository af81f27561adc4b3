package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport turns a time-ordered snapshot series into trend
// points with per-run deltas and windowed moving averages.
func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:       current.Timestamp,
			RunID:           current.RunID,
			FileCount:       current.FileCount,
			LineCount:       current.LineCount,
			ModuleCount:     current.ModuleCount,
			CycleCount:      current.CycleCount,
			UnresolvedCount: current.UnresolvedCount,
			FunctionCount:   current.FunctionCount,
			AvgComplexity:   current.AvgComplexity,
			MaxComplexity:   current.MaxComplexity,
			AvgFanIn:        current.AvgFanIn,
			AvgFanOut:       current.AvgFanOut,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaLines = current.LineCount - prev.LineCount
			point.DeltaCycles = current.CycleCount - prev.CycleCount
			point.DeltaUnresolved = current.UnresolvedCount - prev.UnresolvedCount
			point.DeltaFunctions = current.FunctionCount - prev.FunctionCount
			point.DeltaComplexity = round2(current.AvgComplexity - prev.AvgComplexity)
			if prev.FileCount > 0 {
				point.FileGrowthPct = round2((float64(point.DeltaFiles) / float64(prev.FileCount)) * 100)
			}
		}

		avgCycles, avgUnresolved := movingAverages(snapshots, i, window)
		point.AvgCycles = round2(avgCycles)
		point.AvgUnresolved = round2(avgUnresolved)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].CycleCount), float64(snapshots[index].UnresolvedCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var cyclesTotal int
	var unresolvedTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		cyclesTotal += snapshots[i].CycleCount
		unresolvedTotal += snapshots[i].UnresolvedCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(cyclesTotal) / float64(count), float64(unresolvedTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
