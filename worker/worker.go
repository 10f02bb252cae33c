package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker a long running worker
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a task on a fixed interval until the context ends
type TickWorker struct {
	Delay time.Duration
}

// StartTick start ticking
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			_ = onTick(ctx)
		}
	}
}

// OnWork job callback
type OnWork func() error

// BaseJob cron-backed job
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

// Run starts the cron and blocks until the context ends
func (job *BaseJob) Run(ctx context.Context) error {
	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return ctx.Err()
}

// Work run one round, skipping overlapping executions
func (job *BaseJob) Work() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	_ = job.OnWork()
	job.IsRunning = false
}
