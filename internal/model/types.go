// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/soilwb/internal/balance"
)

// Config defines the settings of one simulation run.
type Config struct {
	Soils  []balance.Soil
	Input  string
	Column string
	OutDir string
	// Stdout writes the single requested soil's table to standard output.
	Stdout      bool
	Precision   int
	History     bool
	MetricsFile string
}

// HistoryConfig defines filters for listing past runs.
type HistoryConfig struct {
	Soil  string
	Since *time.Time
	Last  int
}

// RunStats captures a completed run.
type RunStats struct {
	CreatedAt time.Time
	Soil      balance.Soil
	Source    string
	Output    string
	Summary   balance.Summary
}

// RunAggregate is a stored run with its ID.
type RunAggregate struct {
	RunID int64
	RunStats
}
