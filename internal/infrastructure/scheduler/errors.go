package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a run on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrSyncInProgress is returned when a run is requested while another one is active
	ErrSyncInProgress = errors.New("offer sync already in progress")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
