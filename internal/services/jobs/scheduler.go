package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sgavka/mystic-bots-sub000/internal/ports/jobs"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/service"
)

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	alerterService service.IAlerterService
	log            *slog.Logger
	wg             sync.WaitGroup
	cancel         context.CancelFunc
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		alerterService: alerterService,
		log:            log,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все зарегистрированные джобы, каждую в своей горутине.
// Каждая джоба выполняется сразу при старте, затем по своему интервалу
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Error("no jobs registered, scheduler not started")
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job jobs.Job) {
			defer s.wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих запусков
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("job scheduler stopped")
}

// runJob запускает отдельную джобу в цикле: сразу, затем по тикеру.
// Ошибка одного запуска не прерывает цикл и не задевает другие джобы
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()

	s.executeJob(ctx, job, jobName)

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-ticker.C:
			s.executeJob(ctx, job, jobName)
		}
	}
}

// executeJob один запуск джобы с защитой от паники
func (s *Scheduler) executeJob(ctx context.Context, job jobs.Job, jobName string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked",
				"job_name", jobName,
				"panic", r,
			)
			s.sendAlert(ctx, jobName, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		s.log.Error("job execution failed",
			"job_name", jobName,
			"error", err,
		)
		s.sendAlert(ctx, jobName, err)
		return
	}

	s.log.Debug("job executed successfully", "job_name", jobName)
}

// sendAlert алертит об ошибке запуска джобы
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, err error) {
	if s.alerterService == nil {
		return
	}

	message := fmt.Sprintf("⚠️ Ошибка планировщика\n\nДжоба: %s\nОшибка: %s", jobName, err.Error())

	if alertErr := s.alerterService.SendAlert(ctx, message); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
