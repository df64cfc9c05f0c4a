package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CollectRun records one provider invocation, either an interactive
// search or a scheduled collection pass.
type CollectRun struct {
	ID            int64      `json:"id" db:"id"`
	Provider      string     `json:"provider" db:"provider"`
	Location      string     `json:"location" db:"location"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	FinishedAt    *time.Time `json:"finished_at" db:"finished_at"`
	Status        RunStatus  `json:"status" db:"status"`
	ListingsFound int        `json:"listings_found" db:"listings_found"`
	ListingsKept  int        `json:"listings_kept" db:"listings_kept"`
	ErrorsCount   int        `json:"errors_count" db:"errors_count"`
}

type ProviderStats struct {
	Provider       string     `json:"provider" db:"provider"`
	LastRunAt      *time.Time `json:"last_run_at" db:"last_run_at"`
	LastRunStatus  string     `json:"last_run_status" db:"last_run_status"`
	TotalRuns      int        `json:"total_runs" db:"total_runs"`
	TotalListings  int        `json:"total_listings" db:"total_listings"`
	SuccessRate    float64    `json:"success_rate" db:"success_rate"`
	AvgDurationSec int        `json:"avg_duration_sec" db:"avg_duration_sec"`
}
