package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	interval time.Duration
	runs     atomic.Int64
	err      error
	panics   bool
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	if j.panics {
		panic("boom")
	}
	return j.err
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunsImmediatelyAndByInterval(t *testing.T) {
	scheduler := NewScheduler(testLogger(), nil)
	job := &countingJob{name: "counter", interval: 30 * time.Millisecond}
	scheduler.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, scheduler.Start(ctx))

	// Первый запуск происходит сразу, не дожидаясь интервала
	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	scheduler.Stop()
}

func TestSchedulerIsolatesFailures(t *testing.T) {
	alerter := &recordingAlerter{}
	scheduler := NewScheduler(testLogger(), alerter)

	failing := &countingJob{name: "failing", interval: 20 * time.Millisecond, err: errors.New("storage down")}
	panicking := &countingJob{name: "panicking", interval: 20 * time.Millisecond, panics: true}
	healthy := &countingJob{name: "healthy", interval: 20 * time.Millisecond}

	scheduler.Register(failing)
	scheduler.Register(panicking)
	scheduler.Register(healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, scheduler.Start(ctx))

	// Падающие джобы не мешают здоровой и не роняют планировщик
	assert.Eventually(t, func() bool {
		return healthy.runs.Load() >= 3 && failing.runs.Load() >= 2 && panicking.runs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	scheduler.Stop()

	assert.GreaterOrEqual(t, alerter.count(), 2, "failures and panics must be alerted")
}

func TestSchedulerStopDrainsJobs(t *testing.T) {
	scheduler := NewScheduler(testLogger(), nil)
	job := &countingJob{name: "counter", interval: 10 * time.Millisecond}
	scheduler.Register(job)

	require.NoError(t, scheduler.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	scheduler.Stop()
	after := job.runs.Load()

	// После Stop новых запусков нет
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, job.runs.Load())
}

func TestSchedulerWithoutJobs(t *testing.T) {
	scheduler := NewScheduler(testLogger(), nil)
	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()
}
