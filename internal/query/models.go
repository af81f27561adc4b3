package query

import "creview/internal/history"

type ModuleSummary struct {
	Name                   string
	Layer                  string
	FileCount              int
	HeaderCount            int
	SourceCount            int
	LineCount              int
	DependencyCount        int
	ReverseDependencyCount int
}

type ModuleDetails struct {
	Name                string
	Layer               string
	Files               []string
	LineCount           int
	Dependencies        []string
	ReverseDependencies []string
}

type FunctionDetails struct {
	Name       string
	File       string
	Line       int
	ReturnType string
	Callers    []string
	Callees    []string
}

type TrendSlice struct {
	Since     string
	Until     string
	ScanCount int
	Snapshots []history.Snapshot
}
