// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	StatusRequests      = expvar.NewInt("status_requests_total")
	ForecastRequests    = expvar.NewInt("forecast_requests_total")
	StatsRequests       = expvar.NewInt("stats_requests_total")
	RequestErrors       = expvar.NewInt("request_errors_total")
	ReconcileRuns       = expvar.NewInt("reconcile_runs_total")
	ReconcileFailures   = expvar.NewInt("reconcile_failures_total")
	StageLogInserts     = expvar.NewInt("stage_log_inserts_total")
	StageLogCorrections = expvar.NewInt("stage_log_corrections_total")
	CurrentStage        = expvar.NewInt("current_stage")
)
