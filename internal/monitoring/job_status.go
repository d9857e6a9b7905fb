package monitoring

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const (
	defaultStalledAfter = 5 * time.Minute
	stallCheckInterval  = time.Minute
)

type JobExecutionStatus string

const (
	JobStatusPending JobExecutionStatus = "pending"
	JobStatusRunning JobExecutionStatus = "running"
	JobStatusSuccess JobExecutionStatus = "success"
	JobStatusFailed  JobExecutionStatus = "failed"
	JobStatusStalled JobExecutionStatus = "stalled"
)

// JobStatus is the last known state of one background job.
type JobStatus struct {
	JobName             string             `json:"job_name"`
	Status              JobExecutionStatus `json:"status"`
	LastRunTime         time.Time          `json:"last_run_time"`
	LastDuration        time.Duration      `json:"last_duration_ms"`
	SuccessCount        int64              `json:"success_count"`
	FailureCount        int64              `json:"failure_count"`
	ConsecutiveFailures int64              `json:"consecutive_failures"`
	LastError           string             `json:"last_error,omitempty"`
	ErrorType           string             `json:"error_type,omitempty"`
	RegisteredAt        time.Time          `json:"registered_at"`
}

type JobsSummary struct {
	TotalJobs      int       `json:"total_jobs"`
	RunningJobs    int       `json:"running_jobs"`
	HealthyJobs    int       `json:"healthy_jobs"`
	UnhealthyJobs  int       `json:"unhealthy_jobs"`
	StalledJobs    int       `json:"stalled_jobs"`
	LastUpdateTime time.Time `json:"last_update_time"`
}

// JobStatusManager records the runs of background jobs for the jobs health
// check. It is safe for concurrent use.
type JobStatusManager struct {
	mu           sync.RWMutex
	jobs         map[string]*JobStatus
	logger       *logger.Logger
	metrics      *BackgroundJobMetrics
	stalledAfter time.Duration
}

func NewJobStatusManager(logger *logger.Logger, metrics *BackgroundJobMetrics) *JobStatusManager {
	return &JobStatusManager{
		jobs:         make(map[string]*JobStatus),
		logger:       logger,
		metrics:      metrics,
		stalledAfter: defaultStalledAfter,
	}
}

// Start marks overrunning jobs as stalled until ctx is done.
func (m *JobStatusManager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(stallCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.markStalled()
			}
		}
	}()
}

func (m *JobStatusManager) RegisterJob(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.job(name)
}

// job returns the status of name, creating it as pending. Callers hold mu.
func (m *JobStatusManager) job(name string) *JobStatus {
	status, ok := m.jobs[name]
	if !ok {
		status = &JobStatus{JobName: name, Status: JobStatusPending, RegisteredAt: time.Now()}
		m.jobs[name] = status
	}
	return status
}

func (m *JobStatusManager) StartJob(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.job(name)
	status.Status = JobStatusRunning
	status.LastRunTime = time.Now()
	m.metrics.activeJobs.Inc()
}

// CompleteJob closes the run opened by StartJob; err nil means success.
func (m *JobStatusManager) CompleteJob(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.jobs[name]
	if !ok || status.LastRunTime.IsZero() {
		m.logger.Error("[JobStatusManager][CompleteJob] job was never started", map[string]string{
			"job_name": name,
		})
		return
	}
	m.metrics.activeJobs.Dec()

	status.LastDuration = time.Since(status.LastRunTime)
	result := "success"
	if err != nil {
		result = "error"
		status.Status = JobStatusFailed
		status.FailureCount++
		status.ConsecutiveFailures++
		status.LastError = err.Error()
		status.ErrorType = classifyJobError(err)

		m.logger.Error("[JobStatusManager][CompleteJob] job failed", map[string]string{
			"job_name":             name,
			"error":                status.LastError,
			"error_type":           status.ErrorType,
			"consecutive_failures": strconv.FormatInt(status.ConsecutiveFailures, 10),
		})
	} else {
		status.Status = JobStatusSuccess
		status.SuccessCount++
		status.ConsecutiveFailures = 0
		status.LastError = ""
		status.ErrorType = ""
	}

	m.metrics.jobRuns.WithLabelValues(name, result).Inc()
	m.metrics.jobDuration.WithLabelValues(name, result).Observe(status.LastDuration.Seconds())
}

// GetJobStatus returns a copy of the status of name.
func (m *JobStatusManager) GetJobStatus(name string) (*JobStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.jobs[name]
	if !ok {
		return nil, false
	}
	out := m.view(status, time.Now())
	return &out, true
}

// GetAllJobStatuses reports overrunning jobs as stalled even before the
// background check has marked them.
func (m *JobStatusManager) GetAllJobStatuses() map[string]JobStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	out := make(map[string]JobStatus, len(m.jobs))
	for name, status := range m.jobs {
		out[name] = m.view(status, now)
	}
	return out
}

func (m *JobStatusManager) GetJobsSummary() JobsSummary {
	summary := JobsSummary{LastUpdateTime: time.Now()}
	for _, status := range m.GetAllJobStatuses() {
		summary.TotalJobs++
		switch status.Status {
		case JobStatusRunning:
			summary.RunningJobs++
		case JobStatusSuccess:
			summary.HealthyJobs++
		case JobStatusFailed:
			summary.UnhealthyJobs++
		case JobStatusStalled:
			summary.StalledJobs++
		}
	}
	return summary
}

func (m *JobStatusManager) view(status *JobStatus, now time.Time) JobStatus {
	out := *status
	if m.overrunning(status, now) {
		out.Status = JobStatusStalled
	}
	return out
}

func (m *JobStatusManager) overrunning(status *JobStatus, now time.Time) bool {
	return status.Status == JobStatusRunning && now.Sub(status.LastRunTime) > m.stalledAfter
}

func (m *JobStatusManager) markStalled() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	stalled := 0
	for name, status := range m.jobs {
		if m.overrunning(status, now) {
			status.Status = JobStatusStalled
			m.logger.Error("[JobStatusManager][markStalled] job stalled", map[string]string{
				"job_name":      name,
				"last_run_time": status.LastRunTime.Format(time.RFC3339),
			})
		}
		if status.Status == JobStatusStalled {
			stalled++
		}
	}
	m.metrics.stalledJobs.Set(float64(stalled))
}

var (
	errJobTimeout = errors.New("job timed out")
	errJobPanic   = errors.New("job panicked")
)

func classifyJobError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errJobPanic):
		return "panic"
	case errors.Is(err, errJobTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	for _, store := range []string{"bolt", "redis", "sql", "postgres"} {
		if strings.Contains(msg, store) {
			return "store"
		}
	}
	if strings.Contains(msg, "connection") {
		return "network"
	}
	return "unknown"
}

// BackgroundJobMetrics are the Prometheus series behind JobStatusManager.
type BackgroundJobMetrics struct {
	jobDuration *prometheus.HistogramVec
	jobRuns     *prometheus.CounterVec
	jobTimeouts *prometheus.CounterVec
	activeJobs  prometheus.Gauge
	stalledJobs prometheus.Gauge
}

func NewBackgroundJobMetrics() *BackgroundJobMetrics {
	return &BackgroundJobMetrics{
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "htlc_backend_background_job_duration_seconds",
			Help:    "Background job run time in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"job_name", "status"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "htlc_backend_background_job_runs_total",
			Help: "Background job runs by outcome",
		}, []string{"job_name", "status"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "htlc_backend_job_timeouts_total",
			Help: "Background job runs cut off by their timeout",
		}, []string{"job_name"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "htlc_backend_background_jobs_active",
			Help: "Background jobs running now",
		}),
		stalledJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "htlc_backend_background_jobs_stalled",
			Help: "Background jobs past the stall threshold",
		}),
	}
}

func (m *BackgroundJobMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(m.jobDuration, m.jobRuns, m.jobTimeouts, m.activeJobs, m.stalledJobs)
}
