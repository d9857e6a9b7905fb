package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

// InstrumentedJob runs a job function under a timeout, recovers panics and
// reports every run to a JobStatusManager. It satisfies cron.Job.
type InstrumentedJob struct {
	name    string
	run     func(ctx context.Context) error
	status  *JobStatusManager
	logger  *logger.Logger
	timeout time.Duration
}

func NewInstrumentedJob(
	name string,
	run func(ctx context.Context) error,
	status *JobStatusManager,
	logger *logger.Logger,
	timeout time.Duration,
) *InstrumentedJob {
	status.RegisterJob(name)
	return &InstrumentedJob{name: name, run: run, status: status, logger: logger, timeout: timeout}
}

func (j *InstrumentedJob) Run() {
	j.Execute()
}

// Execute returns once the job finished or its timeout passed, whichever
// comes first. A timed out run keeps going in the background.
func (j *InstrumentedJob) Execute() {
	j.status.StartJob(j.name)

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				j.logger.Error("[InstrumentedJob][Execute] recovered", map[string]string{
					"job_name": j.name,
					"panic":    fmt.Sprint(r),
				})
				done <- fmt.Errorf("%w: %v", errJobPanic, r)
			}
		}()
		done <- j.run(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("%w after %s", errJobTimeout, j.timeout)
		j.status.metrics.jobTimeouts.WithLabelValues(j.name).Inc()
	}
	j.status.CompleteJob(j.name, err)
}
