package main

import (
	"fmt"
	"strings"

	"creview/internal/history"
)

func printTrendReport(report history.TrendReport) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Trend report: %d scans from %s to %s\n",
		report.ScanCount, report.Since.Format("2006-01-02 15:04"), report.Until.Format("2006-01-02 15:04"))

	for _, p := range report.Points {
		line := fmt.Sprintf("%s  files=%d cycles=%d unresolved=%d cc=%.1f",
			p.Timestamp.Format("2006-01-02 15:04"), p.FileCount, p.CycleCount, p.UnresolvedCount, p.AvgComplexity)
		if p.DeltaFiles != 0 {
			line += fmt.Sprintf(" files%+d", p.DeltaFiles)
		}
		if p.DeltaCycles != 0 {
			line += fmt.Sprintf(" cycles%+d", p.DeltaCycles)
		}
		fmt.Println(line)
	}

	fmt.Printf("Moving averages (%.0fh window): cycles=%.2f unresolved=%.2f\n",
		report.Points[len(report.Points)-1].WindowHours,
		report.Points[len(report.Points)-1].AvgCycles,
		report.Points[len(report.Points)-1].AvgUnresolved)
	fmt.Println(strings.Repeat("-", 40))
}
