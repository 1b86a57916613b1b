package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FakeBackgroundExecutor implements capability.BackgroundExecutor,
// recording scheduled tasks instead of registering with a real OS
// scheduler.
type FakeBackgroundExecutor struct {
	mu    sync.Mutex
	tasks map[string]capability.TaskStatus
}

func NewFakeBackgroundExecutor() *FakeBackgroundExecutor {
	return &FakeBackgroundExecutor{tasks: make(map[string]capability.TaskStatus)}
}

func (e *FakeBackgroundExecutor) ScheduleTask(ctx context.Context, id string, interval time.Duration, constraints capability.TaskConstraints) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tasks[id] = capability.TaskStatus{Scheduled: true}

	return nil
}

func (e *FakeBackgroundExecutor) ScheduleOnce(ctx context.Context, id string, at time.Time, constraints capability.TaskConstraints) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tasks[id] = capability.TaskStatus{Scheduled: true}

	return nil
}

func (e *FakeBackgroundExecutor) CancelTask(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.tasks, id)

	return nil
}

func (e *FakeBackgroundExecutor) GetTaskStatus(ctx context.Context, id string) (capability.TaskStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	status, ok := e.tasks[id]
	if !ok {
		return capability.TaskStatus{}, coreerr.NotFound("task", id)
	}

	return status, nil
}

func (e *FakeBackgroundExecutor) NextExecutionTime(ctx context.Context, id string) (time.Time, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.tasks[id]

	return time.Time{}, ok, nil
}

var _ capability.BackgroundExecutor = (*FakeBackgroundExecutor)(nil)
