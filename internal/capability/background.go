package capability

import (
	"context"
	"time"
)

// TaskConstraints narrows when a BackgroundExecutor is allowed to run a
// scheduled task (e.g. enrichment's require_wifi, spec §4.6).
type TaskConstraints struct {
	RequiresWifi    bool
	RequiresNetwork bool
	RequiresCharging bool
	RequiresIdle    bool
}

// TaskStatus reports a scheduled task's last known run state.
type TaskStatus struct {
	Scheduled    bool
	LastRunAt    time.Time
	LastRunError string
}

// BackgroundExecutor is the host's OS-level task scheduler (WorkManager,
// BGTaskScheduler, a browser periodic sync registration, ...).
//
// Error kinds: NotAvailable, OperationFailed.
type BackgroundExecutor interface {
	ScheduleTask(ctx context.Context, id string, interval time.Duration, constraints TaskConstraints) error
	ScheduleOnce(ctx context.Context, id string, at time.Time, constraints TaskConstraints) error
	CancelTask(ctx context.Context, id string) error
	GetTaskStatus(ctx context.Context, id string) (TaskStatus, error)
	NextExecutionTime(ctx context.Context, id string) (time.Time, bool, error)
}
